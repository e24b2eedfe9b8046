package http

import (
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"surveycli/internal/config"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/marketshare"
	"surveycli/internal/middleware"
	apiv1 "surveycli/pkg/contracts/api/v1"
	"surveycli/pkg/contracts/domain"
)

// AnalysisHandler handles analysis requests.
type AnalysisHandler struct {
	engine   *marketshare.Analyzer
	cfg      *config.Config
	validate *validator.Validate
	metrics  *middleware.HTTPMetrics
	logger   *slog.Logger
}

// NewAnalysisHandler creates the analyze endpoint handler. metrics may be
// nil when the service runs without instrumentation (tests).
func NewAnalysisHandler(engine *marketshare.Analyzer, cfg *config.Config, metrics *middleware.HTTPMetrics, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &AnalysisHandler{
		engine:   engine,
		cfg:      cfg,
		validate: v,
		metrics:  metrics,
		logger:   logger.With(slog.String("handler", "analysis")),
	}
}

// Analyze handles POST /api/analyze. Each category runs independently: a
// rejected configuration lands in the failures list while the remaining
// categories still produce results.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req apiv1.AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		_ = render.Render(w, r, apperrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		_ = render.Render(w, r, apperrors.ValidationErrors(fieldErrors(err)))
		return
	}

	configs, err := h.resolveConfigs(req)
	if err != nil {
		_ = render.Render(w, r, apperrors.FromAppError(err))
		return
	}

	resp := apiv1.AnalyzeResponse{Results: make([]*domain.AnalysisResult, 0, len(configs))}
	for _, cfg := range configs {
		result, err := h.engine.Analyze(ctx, req.Records, cfg)
		if err != nil {
			h.logger.WarnContext(ctx, "category analysis failed",
				slog.String("category", cfg.Name),
				slog.String("error", err.Error()))
			resp.Failures = append(resp.Failures, apiv1.CategoryFailure{
				Category: cfg.Name,
				Error:    err.Error(),
			})
			continue
		}
		if h.metrics != nil {
			h.metrics.AnalysisCompleted()
		}
		resp.Results = append(resp.Results, result)
	}

	render.JSON(w, r, resp)
}

// resolveConfigs picks the configurations for one request: the caller's
// explicit configs when present, otherwise the server's settings document
// filtered to the requested category names.
func (h *AnalysisHandler) resolveConfigs(req apiv1.AnalyzeRequest) ([]domain.AnalyzerConfig, error) {
	if len(req.Configs) > 0 {
		return req.Configs, nil
	}

	names := req.Categories
	if len(names) == 0 {
		names = h.cfg.Categories()
	}
	configs := make([]domain.AnalyzerConfig, 0, len(names))
	for _, name := range names {
		cfg, err := h.cfg.AnalyzerConfig(name)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound, err.Error(), err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// fieldErrors flattens validator output into the API's field error shape.
func fieldErrors(err error) []apperrors.FieldError {
	var fields []apperrors.FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   ve.Namespace(),
				Message: ve.Tag(),
			})
		}
		return fields
	}
	return []apperrors.FieldError{{Field: "", Message: err.Error()}}
}
