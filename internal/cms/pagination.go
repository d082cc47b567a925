package cms

import "github.com/liangwei/kuaikuaichuhai-website/internal/domain"

// RemotePagination is the pagination block of a Strapi-style envelope
// (meta.pagination).
type RemotePagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Normalize turns a remote pagination block and its docs into the shared
// envelope. A missing block is read as page 1 of an empty result with the
// provider's default page size. PageCount is ignored: total pages are always
// derived from Total and PageSize.
func Normalize[T any](docs []T, p *RemotePagination, defaultPageSize int) *domain.Page[T] {
	if p == nil {
		return domain.NewPage(docs, 1, defaultPageSize, 0)
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	return domain.NewPage(docs, page, size, p.Total)
}
