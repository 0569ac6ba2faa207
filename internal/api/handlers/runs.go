package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gridsolve/internal/api/models"
	"gridsolve/internal/archive"
)

// RunsHandler serves archived solve runs.
type RunsHandler struct {
	Archive *archive.Archive
}

func NewRunsHandler(arc *archive.Archive) *RunsHandler {
	return &RunsHandler{Archive: arc}
}

// ListRuns handles GET /api/v1/runs.
func (h *RunsHandler) ListRuns(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NO_ARCHIVE", Message: "run archive is not configured"},
		})
		return
	}
	runs, err := h.Archive.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "ARCHIVE_ERROR", Message: err.Error()},
		})
		return
	}
	out := make([]models.RunSummary, 0, len(runs))
	for _, r := range runs {
		out = append(out, runSummary(r))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

// GetRun handles GET /api/v1/runs/:id.
func (h *RunsHandler) GetRun(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NO_ARCHIVE", Message: "run archive is not configured"},
		})
		return
	}
	run, err := h.Archive.GetRun(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		code := "ARCHIVE_ERROR"
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
			code = "RUN_NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	detail := models.RunDetail{RunSummary: runSummary(run.Meta)}
	for _, s := range run.Scalars {
		detail.Scalars = append(detail.Scalars, models.RunScalar{
			Source: s.Source, Target: s.Target, Variable: s.Variable, Value: s.Value,
		})
	}
	for _, s := range run.Sequences {
		detail.Sequences = append(detail.Sequences, models.RunSequence{
			Source: s.Source, Target: s.Target, Variable: s.Variable,
			Step: s.Step, Timestamp: s.Timestamp, Value: s.Value,
		})
	}
	c.JSON(http.StatusOK, detail)
}

func runSummary(m archive.RunMeta) models.RunSummary {
	return models.RunSummary{
		ID:        m.ID,
		Scenario:  m.Scenario,
		Status:    m.Status,
		Objective: m.Objective,
		CreatedAt: m.CreatedAt,
	}
}
