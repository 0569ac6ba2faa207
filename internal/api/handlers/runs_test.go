package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsolve/internal/api/models"
	"gridsolve/internal/archive"
	"gridsolve/internal/energy"
	"gridsolve/internal/results"
	"gridsolve/internal/solver"
)

func runsRouter(arc *archive.Archive) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewRunsHandler(arc)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/runs/:id", h.GetRun)
	return r
}

func archivedRun(t *testing.T, arc *archive.Archive) string {
	t.Helper()
	start := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)
	sys := energy.NewSystem(energy.TimeRange(start, 2, time.Hour))

	bel := energy.NewBus("bel")
	wind := &energy.Source{Name: "wind"}
	require.NoError(t, sys.Add(bel))
	require.NoError(t, sys.Add(wind))

	sol := &solver.Solution{Status: solver.StatusOptimal, Objective: 42.5}
	for step, v := range []float64{10, 20} {
		sol.Records = append(sol.Records, solver.Record{
			Block:    "flow",
			Variable: "value",
			Index: []solver.IndexElem{
				solver.EntityElem(wind),
				solver.EntityElem(bel),
				solver.StepElem(step),
			},
			Value: v,
		})
	}
	store, err := results.Extract(sys, sol)
	require.NoError(t, err)

	id, err := arc.SaveRun("dispatch", sol, store)
	require.NoError(t, err)
	return id
}

func doRequest(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListRunsNoArchive(t *testing.T) {
	w := doRequest(t, runsRouter(nil), "/api/v1/runs")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_ARCHIVE", resp.Error.Code)
}

func TestListRuns(t *testing.T) {
	arc, err := archive.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { arc.Close() })
	id := archivedRun(t, arc)

	w := doRequest(t, runsRouter(arc), "/api/v1/runs")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Runs []models.RunSummary `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, id, resp.Runs[0].ID)
	assert.Equal(t, "dispatch", resp.Runs[0].Scenario)
	assert.Equal(t, "optimal", resp.Runs[0].Status)
	assert.InDelta(t, 42.5, resp.Runs[0].Objective, 1e-9)
}

func TestGetRun(t *testing.T) {
	arc, err := archive.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { arc.Close() })
	id := archivedRun(t, arc)

	w := doRequest(t, runsRouter(arc), "/api/v1/runs/"+id)

	require.Equal(t, http.StatusOK, w.Code)
	var detail models.RunDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, id, detail.ID)
	require.Len(t, detail.Sequences, 2)
	assert.Equal(t, "wind", detail.Sequences[0].Source)
	assert.Equal(t, "bel", detail.Sequences[0].Target)
	assert.Equal(t, "value", detail.Sequences[0].Variable)
	assert.InDelta(t, 10, detail.Sequences[0].Value, 1e-9)
}

func TestGetRunNotFound(t *testing.T) {
	arc, err := archive.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { arc.Close() })

	w := doRequest(t, runsRouter(arc), "/api/v1/runs/no-such-run")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RUN_NOT_FOUND", resp.Error.Code)
}
