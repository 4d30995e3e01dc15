package service_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/katalvlaran/mipmh/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	hub := service.NewHub()
	go hub.Run()
	return service.SetupRouter(nil, hub)
}

func postSolve(t *testing.T, router *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestHandleSolve_Knapsack runs the reference knapsack through the HTTP
// surface.
func TestHandleSolve_Knapsack(t *testing.T) {
	router := newTestRouter()

	terms := make([]service.TermRequest, 0, 10)
	capTerms := make([]service.TermRequest, 0, 10)
	for i := 0; i < 10; i++ {
		terms = append(terms, service.TermRequest{Variable: "x", Index: []int{i}, Coefficient: float64(i + 1)})
		capTerms = append(capTerms, service.TermRequest{Variable: "x", Index: []int{i}, Coefficient: 1})
	}

	rec := postSolve(t, router, service.SolveRequest{
		Name: "knapsack10",
		Variables: []service.VariableRequest{
			{Name: "x", Shape: []int{10}},
		},
		Constraints: []service.ConstraintRequest{
			{Name: "capacity", Sense: "<=", RHS: 5, Terms: capTerms},
		},
		Objective: &service.ObjectiveRequest{Sense: "maximize", Terms: terms},
		Options:   json.RawMessage(`{"iteration_max": 5, "tabu_search": {"iteration_max": 60}}`),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		RunID    string `json:"run_id"`
		Solution struct {
			Objective  float64 `json:"objective"`
			IsFeasible bool    `json:"is_feasible"`
		} `json:"solution"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RunID)
	assert.True(t, result.Solution.IsFeasible)
	assert.InDelta(t, 40.0, result.Solution.Objective, 1e-9)
}

// TestHandleSolve_BadRequests verifies input validation surfaces as 400s.
func TestHandleSolve_BadRequests(t *testing.T) {
	router := newTestRouter()

	rec := postSolve(t, router, service.SolveRequest{
		Name:      "nameless",
		Variables: []service.VariableRequest{{Name: "bad name", Shape: []int{2}}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "invalid variable name")

	rec = postSolve(t, router, service.SolveRequest{
		Name:      "badsense",
		Variables: []service.VariableRequest{{Name: "x", Shape: []int{2}}},
		Constraints: []service.ConstraintRequest{
			{Name: "g", Sense: "<>", RHS: 1, Terms: []service.TermRequest{{Variable: "x", Index: []int{0}, Coefficient: 1}}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown constraint sense")

	rec = postSolve(t, router, service.SolveRequest{
		Name:      "empty",
		Variables: nil,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no variables")
}

// TestHandleHealth verifies the liveness probe.
func TestHandleHealth(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
