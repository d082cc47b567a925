package contact

import (
	"context"
	"strings"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// Service forwards contact submissions to the content store.
type Service struct {
	repo domain.ContentRepository
}

// NewService creates a Service backed by repo.
func NewService(repo domain.ContentRepository) *Service {
	return &Service{repo: repo}
}

// Submit stores a new lead. An empty source falls back to referer. Errors
// are returned as-is; nothing is retried.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, referer string) (*domain.Contact, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = strings.TrimSpace(referer)
	}
	return s.repo.SubmitContact(ctx, domain.ContactSubmission{
		Name:        strings.TrimSpace(req.Name),
		Company:     strings.TrimSpace(req.Company),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		ServiceType: domain.ServiceInterest(req.ServiceType),
		Message:     strings.TrimSpace(req.Message),
		DealStatus:  domain.DealPending,
		Source:      source,
	})
}
