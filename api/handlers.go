package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/phys-eval/internal/app"
	"github.com/stellarlinkco/phys-eval/internal/dataset"
	"github.com/stellarlinkco/phys-eval/internal/normalize"
	"github.com/stellarlinkco/phys-eval/internal/store"
)

type normalizeRequest struct {
	Text string `json:"text"`
}

type compareRequest struct {
	Prediction         string `json:"prediction"`
	Reference          string `json:"reference"`
	Category           string `json:"category,omitempty"`
	PredictionCategory string `json:"prediction_category,omitempty"`
	Unit               string `json:"unit,omitempty"`
}

type runRequest struct {
	Dataset string `json:"dataset,omitempty"` // Single suite file
	Dir     string `json:"dir,omitempty"`     // Directory of suite files
	Persist bool   `json:"persist,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleNormalize(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing text"))
		return
	}

	a := normalize.Normalize(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"category": a.Category,
		"value":    a.String(),
		"unit":     a.Unit,
	})
}

func (s *Server) handleCompare(c *gin.Context) {
	if s == nil || s.runner == nil {
		respondError(c, http.StatusInternalServerError, errors.New("runner not configured"))
		return
	}

	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Reference) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing reference"))
		return
	}

	pair := dataset.Pair{
		ID:                 "adhoc",
		Prediction:         req.Prediction,
		Reference:          req.Reference,
		Category:           req.Category,
		PredictionCategory: req.PredictionCategory,
		Unit:               req.Unit,
	}

	res, err := s.runner.RunPair(c.Request.Context(), pair)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleStartRun(c *gin.Context) {
	if s == nil || s.runner == nil {
		respondError(c, http.StatusInternalServerError, errors.New("runner not configured"))
		return
	}

	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var (
		suites []*dataset.Suite
		err    error
	)
	switch {
	case strings.TrimSpace(req.Dataset) != "":
		var suite *dataset.Suite
		suite, err = dataset.LoadFromFile(strings.TrimSpace(req.Dataset))
		if suite != nil {
			suites = append(suites, suite)
		}
	case strings.TrimSpace(req.Dir) != "":
		suites, err = dataset.LoadFromDir(strings.TrimSpace(req.Dir))
	default:
		respondError(c, http.StatusBadRequest, errors.New("missing dataset or dir"))
		return
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if len(suites) == 0 {
		respondError(c, http.StatusBadRequest, errors.New("no suites found"))
		return
	}

	startedAt := time.Now().UTC()
	runs, err := app.ExecuteSuites(c.Request.Context(), s.runner, suites)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	finishedAt := time.Now().UTC()

	type suiteSummary struct {
		RunID    string  `json:"run_id,omitempty"`
		Suite    string  `json:"suite"`
		Total    int     `json:"total"`
		Matched  int     `json:"matched"`
		Accuracy float64 `json:"accuracy"`
	}

	summaries := make([]suiteSummary, 0, len(runs))
	for _, r := range runs {
		entry := suiteSummary{
			Suite:    r.Suite.Suite,
			Total:    r.Result.Total,
			Matched:  r.Result.Matched,
			Accuracy: r.Result.Accuracy,
		}
		if req.Persist && s.store != nil {
			record, err := app.SaveRun(c.Request.Context(), s.store, r, startedAt, finishedAt, nil)
			if err != nil {
				respondError(c, http.StatusInternalServerError, err)
				return
			}
			entry.RunID = record.ID
		}
		summaries = append(summaries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": app.Summarize(runs),
		"suites":  summaries,
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("store not configured"))
		return
	}

	filter := store.RunFilter{
		SuiteName: strings.TrimSpace(c.Query("suite")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		filter.Limit = n
	}

	runs, err := s.store.ListRuns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, runsToJSON(runs))
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("store not configured"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	run, err := s.store.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, runToJSON(run))
}

func (s *Server) handleGetRunResults(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("store not configured"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	results, err := s.store.GetPairResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		out = append(out, gin.H{
			"pair_id":             r.PairID,
			"prediction_category": r.PredictionCategory,
			"reference_category":  r.ReferenceCategory,
			"matched":             r.Matched,
			"confidence":          r.Confidence,
			"method":              r.Method,
			"reason":              r.Reason,
			"latency_ms":          r.LatencyMs,
			"error":               r.Error,
			"details":             r.Details,
		})
	}
	c.JSON(http.StatusOK, out)
}

func runsToJSON(runs []*store.RunRecord) []gin.H {
	out := make([]gin.H, 0, len(runs))
	for _, r := range runs {
		out = append(out, runToJSON(r))
	}
	return out
}

func runToJSON(r *store.RunRecord) gin.H {
	if r == nil {
		return nil
	}
	return gin.H{
		"id":          r.ID,
		"suite":       r.SuiteName,
		"started_at":  r.StartedAt.Format(time.RFC3339),
		"finished_at": r.FinishedAt.Format(time.RFC3339),
		"total_pairs": r.TotalPairs,
		"matched":     r.Matched,
		"accuracy":    r.Accuracy,
		"config":      r.Config,
	}
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
