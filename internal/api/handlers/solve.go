package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridsolve/internal/analysis"
	"gridsolve/internal/api/models"
	"gridsolve/internal/archive"
	"gridsolve/internal/config"
	"gridsolve/internal/data"
	"gridsolve/internal/results"
	"gridsolve/internal/solver"
)

// SolveHandler runs scenarios end to end: load, solve, extract, respond.
type SolveHandler struct {
	Archive *archive.Archive // nil disables persistence
}

func NewSolveHandler(arc *archive.Archive) *SolveHandler {
	return &SolveHandler{Archive: arc}
}

// RunSolve handles POST /api/v1/solve.
func (h *SolveHandler) RunSolve(c *gin.Context) {
	var req models.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	cfg, err := config.Load(req.ScenarioFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_SCENARIO", Message: err.Error()},
		})
		return
	}

	profiles := map[string][]float64{}
	if cfg.Profiles.File != "" {
		profiles, err = data.LoadProfilesCSV(cfg.Profiles.File)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_PROFILES", Message: err.Error()},
			})
			return
		}
	}

	sys, err := cfg.BuildSystem(profiles)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_SCENARIO", Message: err.Error()},
		})
		return
	}

	glpk := &solver.GLPK{Binary: cfg.Solver.Binary, Args: cfg.Solver.Args}
	if req.Binary != "" {
		glpk.Binary = req.Binary
	}
	if len(req.Args) > 0 {
		glpk.Args = req.Args
	}

	sol, err := glpk.Solve(c.Request.Context(), cfg.Solver.ModelFile, sys)
	if err != nil {
		var sf *solver.SolveFailedError
		if errors.As(err, &sf) {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "SOLVE_FAILED",
					Message: sf.Error(),
					Details: map[string]interface{}{"status": string(sf.Status)},
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SOLVER_ERROR", Message: err.Error()},
		})
		return
	}

	store, err := results.Extract(sys, sol)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "EXTRACTION_ERROR", Message: err.Error()},
		})
		return
	}

	resp := buildSolveResponse(cfg, sol, store, req.IncludeSequences)

	if req.Archive && h.Archive != nil {
		id, err := h.Archive.SaveRun(cfg.Name, sol, store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "ARCHIVE_ERROR", Message: err.Error()},
			})
			return
		}
		resp.RunID = id
	}

	c.JSON(http.StatusOK, resp)
}

func buildSolveResponse(cfg *config.Config, sol *solver.Solution, store *results.Store, includeSequences bool) models.SolveResponse {
	resp := models.SolveResponse{
		Status:    string(sol.Status),
		Scenario:  cfg.Name,
		Objective: sol.Objective,
	}

	for _, key := range store.Keys() {
		entry, _ := store.Get(key)
		er := models.EntryResult{
			Key:     key.Labels(),
			Scalars: entry.Scalars,
		}
		if includeSequences && entry.Sequences != nil && len(entry.Sequences.Columns()) > 0 {
			cols := make(map[string][]float64, len(entry.Sequences.Columns()))
			for _, name := range entry.Sequences.Columns() {
				cols[name] = entry.Sequences.Column(name)
			}
			er.Sequences = &models.SequencesResult{
				Index:   entry.Sequences.Index(),
				Columns: cols,
			}
		}
		resp.Results = append(resp.Results, er)
	}

	stepHours := stepHours(cfg)
	for _, s := range analysis.SummarizeFlows(store, stepHours) {
		resp.Flows = append(resp.Flows, models.FlowSummaryResult{
			Source:   s.Source,
			Target:   s.Target,
			TotalMWh: s.TotalMWh,
			MeanMW:   s.MeanMW,
			PeakMW:   s.PeakMW,
		})
	}
	for _, n := range analysis.NodeBalances(store, stepHours) {
		resp.Nodes = append(resp.Nodes, models.NodeBalanceResult{
			Label:  n.Label,
			InMWh:  n.InMWh,
			OutMWh: n.OutMWh,
			NetMWh: n.NetMWh,
		})
	}
	return resp
}

func stepHours(cfg *config.Config) float64 {
	step, err := cfg.Time.StepDuration()
	if err != nil {
		return 1
	}
	return step.Hours()
}
