package contact

import (
	"github.com/gin-gonic/gin"

	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// FailureMessage is shown to visitors when a submission could not be stored.
const FailureMessage = "提交失败，请稍后再试或直接联系我们"

// Handler serves the contact form endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/v1/contacts. On failure the submitted fields are
// echoed back under data so the form can be re-filled.
func (h *Handler) Create(c *gin.Context) {
	var req SubmitRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	contact, err := h.svc.Submit(c.Request.Context(), req, c.GetHeader("Referer"))
	if err != nil {
		pkg.ErrorWithData(c, err, FailureMessage, req)
		return
	}

	pkg.Created(c, contact)
}
