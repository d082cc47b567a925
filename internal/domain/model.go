package domain

// ArticleQuery is the listing intent for articles. Zero values mean "no filter"
// for Type and Tag and "use the default" for Page, Limit and Status.
type ArticleQuery struct {
	Type   ContentType
	Tag    string // tag slug
	Page   int
	Limit  int
	Status Status
}

// Normalize fills defaults: page 1, the given limit, published status.
func (q ArticleQuery) Normalize(defaultLimit int) ArticleQuery {
	q.Page, q.Limit = normalizePaging(q.Page, q.Limit, defaultLimit)
	if q.Status != StatusDraft {
		q.Status = StatusPublished
	}
	return q
}

// CaseQuery is the listing intent for case studies.
type CaseQuery struct {
	Type  ContentType
	Page  int
	Limit int
}

// Normalize fills page and limit defaults.
func (q CaseQuery) Normalize(defaultLimit int) CaseQuery {
	q.Page, q.Limit = normalizePaging(q.Page, q.Limit, defaultLimit)
	return q
}

// RelatedQuery selects up to Limit items of Type, excluding ExcludeID.
type RelatedQuery struct {
	ExcludeID string
	Type      ContentType
	Limit     int
}

// Normalize fills the limit default.
func (q RelatedQuery) Normalize(defaultLimit int) RelatedQuery {
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	return q
}

func normalizePaging(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
