package webserver

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stake-plus/medshield/src/api/types"
)

// ReportStore persists claim reports; data.Reports satisfies it.
type ReportStore interface {
	Save(ctx context.Context, report *types.ClaimReport) error
}

// Reports serves POST /report.
type Reports struct {
	store  ReportStore
	policy *bluemonday.Policy
	now    func() time.Time
	logger *slog.Logger
}

func NewReports(store ReportStore, logger *slog.Logger) *Reports {
	return &Reports{
		store:  store,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
		logger: logger,
	}
}

func (h *Reports) Create(c *gin.Context) {
	var req types.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: types.ErrBodyTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.ErrInvalidJSON})
		return
	}

	claim := h.clean(req.Claim)
	if claim == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.ErrClaimRequired})
		return
	}

	report := &types.ClaimReport{
		ID:        uuid.NewString(),
		Claim:     claim,
		Verdict:   h.clean(req.Verdict),
		PageURL:   h.clean(req.URL),
		Reason:    h.clean(req.Reason),
		ClientIP:  c.ClientIP(),
		CreatedAt: h.now().UTC(),
	}
	if err := h.store.Save(c.Request.Context(), report); err != nil {
		h.logger.Error("save report", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: types.ErrReportFailed})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": report.ID})
}

func (h *Reports) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(s)))
}
