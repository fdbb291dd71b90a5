package chi

import (
	"time"

	"github.com/kailas-cloud/sensorank/internal/domain/facet"
	"github.com/kailas-cloud/sensorank/internal/domain/scored"
)

// Error response codes.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeCatalogIntegrityError  = "catalog_integrity_error"
	codeInternalError          = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecommendRequest is the POST /api/recommend payload.
type RecommendRequest struct {
	Query       string             `json:"query"`
	SensorType  string             `json:"sensor_type,omitempty"`
	Modules     []string           `json:"modules,omitempty"`
	Environment []string           `json:"environment,omitempty"`
	Weights     map[string]float64 `json:"weights,omitempty"`
	MinScore    *float64           `json:"min_score,omitempty"`
	TopK        int                `json:"top_k,omitempty"`
}

// Recommendation is one ranked catalog item with its score breakdown.
type Recommendation struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Type             string             `json:"type"`
	TotalScore       float64            `json:"total_score"`
	Scores           map[string]float64 `json:"scores"`
	Modules          []string           `json:"compatible_modules,omitempty"`
	Environment      []string           `json:"environment_tags,omitempty"`
	Features         string             `json:"features,omitempty"`
	IPRating         string             `json:"ip_rating,omitempty"`
	PowerConsumption float64            `json:"power_consumption,omitempty"`
	OperatingTemp    string             `json:"operating_temp,omitempty"`
	Range            string             `json:"range,omitempty"`
	Precision        string             `json:"precision,omitempty"`
}

// RecommendResponse is the POST /api/recommend reply. The applied weights and
// K are echoed back so a caller can reproduce the ranking.
type RecommendResponse struct {
	Recommendations []Recommendation   `json:"recommendations"`
	TotalMatched    int                `json:"total_matched"`
	TopK            int                `json:"top_k"`
	Weights         map[string]float64 `json:"weights"`
	SearchTimestamp time.Time          `json:"search_timestamp"`
}

// QuickSearchResult is one simplified GET /api/quick-search hit.
type QuickSearchResult struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Score   float64  `json:"score"`
	Modules []string `json:"modules,omitempty"`
}

// QuickSearchResponse is the GET /api/quick-search reply.
type QuickSearchResponse struct {
	Results []QuickSearchResult `json:"results"`
	Total   int                 `json:"total"`
}

// SensorTypesResponse is the GET /api/sensor-types reply.
type SensorTypesResponse struct {
	SensorTypes  map[string]int `json:"sensor_types"`
	TotalSensors int            `json:"total_sensors"`
}

// StatusResponse is the GET /api/status reply.
type StatusResponse struct {
	Ready        bool   `json:"ready"`
	TotalSensors int    `json:"total_sensors"`
	Version      string `json:"version"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func recommendationFromScored(si *scored.Item) Recommendation {
	it := si.Item()
	attrs := it.Attrs()

	breakdown := make(map[string]float64, len(si.Breakdown()))
	for _, fs := range si.Breakdown() {
		breakdown[string(fs.Facet())] = fs.Value()
	}

	return Recommendation{
		ID:               it.ID(),
		Name:             it.Name(),
		Type:             it.SensorType(),
		TotalScore:       si.Total(),
		Scores:           breakdown,
		Modules:          it.Modules(),
		Environment:      it.EnvTags(),
		Features:         attrs.Features,
		IPRating:         attrs.IPRating,
		PowerConsumption: attrs.PowerConsumption,
		OperatingTemp:    attrs.OperatingTemp,
		Range:            attrs.MeasureRange,
		Precision:        attrs.Precision,
	}
}

func weightsToJSON(m map[facet.Facet]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for f, v := range m {
		out[string(f)] = v
	}
	return out
}
