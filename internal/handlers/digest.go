package handlers

import (
	"strconv"
	"time"

	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DigestHandler struct {
	digestService *services.DigestService
}

func NewDigestHandler(db *gorm.DB, holidays *services.HolidayService) *DigestHandler {
	return &DigestHandler{
		digestService: services.NewDigestService(db, holidays),
	}
}

// List returns stored weekly digests. Admin only.
// GET /api/digests
func (h *DigestHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	digests, total, err := h.digestService.List(page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, total, page, pageSize, digests)
}

// Generate builds the digest for the past week on demand. Admin only.
// POST /api/digests/generate
func (h *DigestHandler) Generate(c *gin.Context) {
	now := time.Now()
	periodEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	periodStart := periodEnd.AddDate(0, 0, -7)

	digest, err := h.digestService.Generate(periodStart, periodEnd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, digest)
}
