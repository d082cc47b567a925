package domain

// LookupStatus tells apart the outcomes of a single-item read.
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	LookupUnavailable
)

// String returns the status name used in logs.
func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Lookup is the result of fetching one record: the record, a definite
// "no such record", or a failure to ask the store at all. Callers render a
// 404 for the second and a retry prompt for the third.
type Lookup[T any] struct {
	Item   *T
	Status LookupStatus
	Err    error
}

// Found wraps a located item.
func Found[T any](item *T) Lookup[T] {
	if item == nil {
		return NotFound[T]()
	}
	return Lookup[T]{Item: item, Status: LookupFound}
}

// NotFound reports that the store answered and holds no matching record.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{Status: LookupNotFound}
}

// Unavailable reports that the store could not be queried.
func Unavailable[T any](err error) Lookup[T] {
	return Lookup[T]{Status: LookupUnavailable, Err: err}
}

// Found reports whether an item is present.
func (l Lookup[T]) Found() bool { return l.Status == LookupFound && l.Item != nil }

// NotFound reports whether the store had no match.
func (l Lookup[T]) NotFound() bool { return l.Status == LookupNotFound }

// Unavailable reports whether the store could not be reached.
func (l Lookup[T]) Unavailable() bool { return l.Status == LookupUnavailable }

// Error converts a non-found result into an AppError suitable for
// pkg.Error; it returns nil when the item was found.
func (l Lookup[T]) Error(what string) error {
	switch l.Status {
	case LookupFound:
		return nil
	case LookupUnavailable:
		return NewAppError(CodeUnavailable, what+" temporarily unavailable", l.Err)
	default:
		return NewAppError(CodeNotFound, what+" not found", nil)
	}
}
