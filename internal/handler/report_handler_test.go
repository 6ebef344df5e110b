package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"pollpulse/internal/model"
	"pollpulse/internal/pipeline"
)

type fakeReportSource struct {
	report *model.TrendReport
	err    error
}

func (f *fakeReportSource) Latest() (*model.TrendReport, error) {
	return f.report, f.err
}

type fakePipeline struct {
	startErr error
	started  int
	status   pipeline.Status
}

func (f *fakePipeline) Start(ctx context.Context) error {
	f.started++
	return f.startErr
}

func (f *fakePipeline) Status() pipeline.Status {
	return f.status
}

func newTestRouter(reports ReportSource, pipe PipelineControl) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(reports, pipe, []string{"Kim", "Lee"})
	r.GET("/news", h.GetNews)
	r.GET("/status", h.GetStatus)
	r.GET("/prediction", h.GetPrediction)
	r.POST("/refresh", h.Refresh)
	r.GET("/health", h.Health)
	return r
}

func sampleReport() *model.TrendReport {
	return &model.TrendReport{
		TrendSummary: "the race is tightening",
		CandidateStats: model.CandidateStats{
			"Kim": {Positive: 8, Negative: 2},
			"Lee": {Positive: 2, Negative: 8},
		},
		TotalArticles: 20,
		TimeRange:     "2026-05-26",
		NewsList:      []model.ProcessedArticle{{Title: "t", URL: "u"}},
		Status:        model.StatusOK,
	}
}

func TestGetNews(t *testing.T) {
	r := newTestRouter(&fakeReportSource{report: sampleReport()}, &fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/news", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.TrendReport
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "the race is tightening", got.TrendSummary)
	assert.Equal(t, 20, got.TotalArticles)
}

func TestGetNews_NoReportServesDefault(t *testing.T) {
	r := newTestRouter(&fakeReportSource{}, &fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/news", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.TrendReport
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.StatusCollecting, got.Status)
	assert.Equal(t, 0, got.TotalArticles)
	// every tracked candidate carries a zeroed tally
	assert.Equal(t, 2, len(got.CandidateStats))
	assert.Equal(t, 0, got.CandidateStats["Kim"].Total())
}

func TestGetNews_StorageError(t *testing.T) {
	r := newTestRouter(&fakeReportSource{err: errors.New("disk gone")}, &fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/news", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetStatus(t *testing.T) {
	pipe := &fakePipeline{status: pipeline.Status{
		State:       pipeline.StateCompleted,
		Completed:   true,
		LastRunDate: "2026-05-26",
	}}
	r := newTestRouter(&fakeReportSource{}, pipe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got pipeline.Status
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, pipeline.StateCompleted, got.State)
	assert.Equal(t, true, got.Completed)
}

func TestGetPrediction(t *testing.T) {
	r := newTestRouter(&fakeReportSource{report: sampleReport()}, &fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/prediction", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got PredictionResponse
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 20, got.TotalArticles)
	assert.Equal(t, "the race is tightening", got.Analysis)

	// Kim has net positive sentiment, Lee the mirror image
	if got.Predictions["Kim"] <= got.Predictions["Lee"] {
		t.Fatalf("got Kim=%v Lee=%v, want Kim ahead", got.Predictions["Kim"], got.Predictions["Lee"])
	}
	sum := got.Predictions["Kim"] + got.Predictions["Lee"]
	if sum < 99.9 || sum > 100.1 {
		t.Fatalf("predictions sum to %v, want 100", sum)
	}
}

func TestGetPrediction_NoReport(t *testing.T) {
	r := newTestRouter(&fakeReportSource{}, &fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/prediction", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got PredictionResponse
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 0, got.TotalArticles)
	assert.Equal(t, 50.0, got.Predictions["Kim"])
	assert.Equal(t, 50.0, got.Predictions["Lee"])
}

func TestRefresh(t *testing.T) {
	pipe := &fakePipeline{}
	r := newTestRouter(&fakeReportSource{}, pipe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/refresh", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, pipe.started)
}

func TestRefresh_AlreadyCompleted(t *testing.T) {
	pipe := &fakePipeline{startErr: pipeline.ErrCompleted}
	r := newTestRouter(&fakeReportSource{}, pipe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/refresh", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRefresh_InProgress(t *testing.T) {
	pipe := &fakePipeline{startErr: pipeline.ErrRunInProgress}
	r := newTestRouter(&fakeReportSource{}, pipe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/refresh", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeReportSource{}, &fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
