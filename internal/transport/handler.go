package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/label-inspector-go/internal/config"
	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/internal/service"
	"github.com/anime-shed/label-inspector-go/internal/storage"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// ImageFormField is the multipart field carrying the uploaded label photo.
const ImageFormField = "image"

type handler struct {
	svc service.LabelService
	cfg *config.Config
}

// NewHandler builds the HTTP API. metrics may be nil to leave /metrics unrouted.
func NewHandler(svc service.LabelService, metrics http.Handler, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		accessLog(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	h := &handler{svc: svc, cfg: cfg}

	r.GET("/health", healthCheck)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	r.POST("/analyze", h.analyzeUpload)
	r.POST("/analyze/url", h.analyzeURL)
	r.POST("/analyze/text", h.analyzeText)
	r.GET("/ingredients/:name", h.describeIngredient)

	return r
}

func (h *handler) analyzeUpload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var opts models.LabelOptions
	if err := c.ShouldBind(&opts); err != nil {
		respondError(c, h.bodyError(err, "invalid analysis options"))
		return
	}

	fh, err := c.FormFile(ImageFormField)
	if err != nil {
		respondError(c, h.bodyError(err, "an image file is required in the \"image\" field"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.NewValidationError("cannot read uploaded file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, h.bodyError(err, "cannot read uploaded file"))
		return
	}
	loaded, err := storage.DecodeBytes(data)
	if err != nil {
		respondError(c, apperrors.NewValidationError("uploaded file is not a supported image", err).
			WithDetails("supported formats: JPEG, PNG, BMP, TIFF, WEBP"))
		return
	}

	resp, err := h.svc.AnalyzeImage(ctx, loaded, "upload:"+fh.Filename, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	logCompleted(c, resp)
	c.JSON(http.StatusOK, resp)
}

func (h *handler) analyzeURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.AnalyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.bodyError(err, "invalid request format"))
		return
	}

	resp, err := h.svc.AnalyzeURL(ctx, req.URL, req.LabelOptions)
	if err != nil {
		respondError(c, err)
		return
	}
	logCompleted(c, resp)
	c.JSON(http.StatusOK, resp)
}

func (h *handler) analyzeText(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.bodyError(err, "invalid request format"))
		return
	}

	resp, err := h.svc.AnalyzeText(ctx, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) describeIngredient(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	details, err := h.svc.DescribeIngredient(ctx, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// bodyError reports oversized bodies as such and everything else as a validation failure.
func (h *handler) bodyError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errRequestTooLarge{limit: h.cfg.MaxRequestBodySize, cause: err}
	}
	return apperrors.NewValidationError(message, err)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func logCompleted(c *gin.Context, resp *models.LabelAnalysisResponse) {
	logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
		"analysis_id":        resp.ID,
		"source":             resp.Source,
		"processing_time_ms": int64(resp.ProcessingTimeSec * 1000),
		"quality_score":      resp.Quality.Score,
		"section_rule":       resp.OCR.SectionRule,
		"allergens":          resp.Analysis.Allergens,
		"warnings":           len(resp.Warnings),
	}).Info("Label analysis completed successfully")
}
