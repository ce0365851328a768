// Package httpapi exposes the matching engine over HTTP with echo,
// following the teacher's internal/handlers layout: one struct per
// route group, a constructor taking its collaborators, a method per
// route, c.JSON(status, map[string]string{"error": ...}) for failures.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"biograph-match-engine/internal/match"
	"biograph-match-engine/internal/render"
	"biograph-match-engine/internal/store"
)

// MatchHandler serves POST /api/match, GET /api/match/:id and
// GET /api/match/:id/report.html.
type MatchHandler struct {
	Store  *store.Store
	Logger *zap.Logger
}

// NewMatchHandler wires a MatchHandler around its collaborators.
func NewMatchHandler(st *store.Store, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{Store: st, Logger: logger}
}

// MatchRequest is the POST /api/match request body: two records and
// an optional disregard set.
type MatchRequest struct {
	Local      match.Record    `json:"local"`
	External   match.Record    `json:"external"`
	Disregard  match.Disregard `json:"disregard"`
	UseDefault bool            `json:"useDefaultDisregard"`
}

// MatchResponse is the POST /api/match response body.
type MatchResponse struct {
	ID     string            `json:"id"`
	Report match.MatchReport `json:"report"`
}

// Create scores one local/external record pair and persists the
// result.
func (h *MatchHandler) Create(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	disregard := req.Disregard
	if req.UseDefault {
		disregard = match.DefaultDisregard()
	}

	report := match.Score(req.Local, req.External, disregard)

	id, err := h.Store.Save(req.Local, req.External, disregard, report)
	if err != nil {
		h.Logger.Error("failed to save match report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save match report"})
	}

	return c.JSON(http.StatusCreated, MatchResponse{ID: id, Report: report})
}

// Get fetches a previously computed match report by ID.
func (h *MatchHandler) Get(c echo.Context) error {
	id := c.Param("id")

	stored, err := h.Store.Get(id)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "match report not found"})
	}
	if err != nil {
		h.Logger.Error("failed to fetch match report", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch match report"})
	}

	return c.JSON(http.StatusOK, MatchResponse{ID: stored.ID, Report: stored.Report})
}

// ReportHTML renders a previously computed match report as the color
// coded comparison table.
func (h *MatchHandler) ReportHTML(c echo.Context) error {
	id := c.Param("id")

	stored, err := h.Store.Get(id)
	if err == store.ErrNotFound {
		return c.HTML(http.StatusNotFound, "<p>match report not found</p>")
	}
	if err != nil {
		h.Logger.Error("failed to fetch match report", zap.String("id", id), zap.Error(err))
		return c.HTML(http.StatusInternalServerError, "<p>failed to fetch match report</p>")
	}

	return c.HTML(http.StatusOK, render.Report(stored.Report))
}
