package domain

// Page is the normalized pagination envelope returned by every listing,
// whichever content store produced the underlying data.
type Page[T any] struct {
	Docs          []T  `json:"docs"`
	TotalDocs     int  `json:"totalDocs"`
	Limit         int  `json:"limit"`
	TotalPages    int  `json:"totalPages"`
	Page          int  `json:"page"`
	PagingCounter int  `json:"pagingCounter"`
	HasPrevPage   bool `json:"hasPrevPage"`
	HasNextPage   bool `json:"hasNextPage"`
	PrevPage      *int `json:"prevPage"`
	NextPage      *int `json:"nextPage"`
}

// NewPage builds a Page from docs and the three primary values. Every other
// field is derived here so all providers agree on them.
func NewPage[T any](docs []T, page, limit, totalDocs int) *Page[T] {
	if docs == nil {
		docs = []T{}
	}
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	if totalDocs < 0 {
		totalDocs = 0
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (totalDocs + limit - 1) / limit
	}

	p := &Page[T]{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: (page-1)*limit + 1,
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// EmptyPage is the result of a listing that could not be served.
func EmptyPage[T any](page, limit int) *Page[T] {
	return NewPage[T](nil, page, limit, 0)
}
