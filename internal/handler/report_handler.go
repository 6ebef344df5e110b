package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"pollpulse/internal/model"
	"pollpulse/internal/pipeline"
)

const (
	predictionBase = 30.0
	predictionMin  = 10.0
	predictionMax  = 50.0
)

type ReportSource interface {
	Latest() (*model.TrendReport, error)
}

type PipelineControl interface {
	Start(ctx context.Context) error
	Status() pipeline.Status
}

type ReportHandler struct {
	reports    ReportSource
	pipe       PipelineControl
	candidates []string
}

func NewReportHandler(reports ReportSource, pipe PipelineControl, candidates []string) *ReportHandler {
	return &ReportHandler{reports: reports, pipe: pipe, candidates: candidates}
}

func (h *ReportHandler) GetNews(c *gin.Context) {
	report, err := h.reports.Latest()
	if err != nil {
		slog.Error("error fetching latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	if report == nil {
		// readers always get a valid artifact, even before the first
		// run has persisted anything
		c.JSON(http.StatusOK, h.defaultReport())
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) defaultReport() *model.TrendReport {
	return &model.TrendReport{
		TrendSummary:   "Data collection is still in progress.",
		CandidateStats: model.NewCandidateStats(h.candidates),
		NewsList:       []model.ProcessedArticle{},
		Status:         model.StatusCollecting,
	}
}

func (h *ReportHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipe.Status())
}

type PredictionResponse struct {
	Predictions   map[string]float64 `json:"predictions"`
	Analysis      string             `json:"analysis"`
	TotalArticles int                `json:"total_articles"`
	TimeRange     string             `json:"time_range"`
}

func (h *ReportHandler) GetPrediction(c *gin.Context) {
	report, err := h.reports.Latest()
	if err != nil {
		slog.Error("error fetching latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	if report == nil {
		c.JSON(http.StatusOK, PredictionResponse{
			Predictions:   h.placeholderPredictions(),
			Analysis:      "Data collection is still in progress.",
			TotalArticles: 0,
		})
		return
	}

	c.JSON(http.StatusOK, PredictionResponse{
		Predictions:   predictions(report.CandidateStats),
		Analysis:      report.TrendSummary,
		TotalArticles: report.TotalArticles,
		TimeRange:     report.TimeRange,
	})
}

func (h *ReportHandler) Refresh(c *gin.Context) {
	err := h.pipe.Start(context.Background())
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
	case errors.Is(err, pipeline.ErrCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Collection already completed"})
	case errors.Is(err, pipeline.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Collection already in progress"})
	case errors.Is(err, pipeline.ErrRanToday):
		c.JSON(http.StatusConflict, gin.H{"error": "Collection already ran today"})
	default:
		slog.Error("error starting refresh", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed"})
	}
}

func (h *ReportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// predictions converts per-candidate sentiment tallies into support
// shares: a base score shifted by net sentiment, clamped, then
// normalized so the shares sum to 100.
func predictions(stats model.CandidateStats) map[string]float64 {
	preds := make(map[string]float64, len(stats))
	for name, tally := range stats {
		score := predictionBase
		if total := tally.Total(); total > 0 {
			score += float64(tally.Positive-tally.Negative) / float64(total) * 10
			score = math.Max(predictionMin, math.Min(predictionMax, score))
		}
		preds[name] = score
	}
	normalize(preds)
	return preds
}

func (h *ReportHandler) placeholderPredictions() map[string]float64 {
	preds := make(map[string]float64, len(h.candidates))
	for _, name := range h.candidates {
		preds[name] = predictionBase
	}
	normalize(preds)
	return preds
}

func normalize(preds map[string]float64) {
	var sum float64
	for _, v := range preds {
		sum += v
	}
	if sum <= 0 {
		return
	}
	for k, v := range preds {
		preds[k] = v / sum * 100
	}
}
