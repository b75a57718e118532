package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hdfops/field-console/internal/core/ports"
)

// AuditHandler serves the authentication audit trail.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListRecent returns the newest audit events.
//
// @Summary      Recent authentication events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events to return (default 50, cap 200)"
// @Success      200    {array}   auditEventView
// @Failure      403    {object}  errorResponse
// @Router       /v1/audit [get]
func (h *AuditHandler) ListRecent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	views := make([]auditEventView, 0, len(events))
	for _, e := range events {
		views = append(views, auditEventView{
			ID:     e.ID,
			Kind:   string(e.Kind),
			Email:  e.Email,
			UserID: e.UserID,
			Reason: e.Reason,
			At:     e.At,
		})
	}
	return c.JSON(http.StatusOK, views)
}
