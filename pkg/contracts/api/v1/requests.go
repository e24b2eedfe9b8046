// Package api contains the API contract definitions for the survey
// market-share analysis service. Version v1 is the current stable version.
package api

import (
	"surveycli/pkg/contracts/domain"
)

// AnalyzeRequest submits a record set for analysis. When Configs is empty
// the server's configured categories run; otherwise each supplied config
// runs as its own category.
type AnalyzeRequest struct {
	Records []domain.Record         `json:"records" validate:"required,min=1"`
	Configs []domain.AnalyzerConfig `json:"configs,omitempty" validate:"omitempty,dive"`
	// Categories restricts a default-config run to the named categories.
	Categories []string `json:"categories,omitempty"`
}

// CategoryFailure reports one category whose configuration was rejected.
// Other categories in the same batch still run.
type CategoryFailure struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}

// AnalyzeResponse carries one result per successfully analyzed category
// plus the per-category configuration failures.
type AnalyzeResponse struct {
	Results  []*domain.AnalysisResult `json:"results"`
	Failures []CategoryFailure        `json:"failures,omitempty"`
}

// HealthResponse is the GET /api/health body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
