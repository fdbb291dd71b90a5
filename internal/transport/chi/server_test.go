package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/kailas-cloud/sensorank/internal/domain"
)

func TestRecommend_OK(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend",
		`{"query":"outdoor fire monitoring","sensor_type":"thermal","top_k":1}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp RecommendResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(resp.Recommendations))
	}
	top := resp.Recommendations[0]
	if top.ID != "thermal-01" {
		t.Errorf("top id = %q, want thermal-01", top.ID)
	}
	if top.TotalScore <= 0 || top.TotalScore > 1 {
		t.Errorf("total score %v outside (0,1]", top.TotalScore)
	}
	if len(top.Scores) != 4 {
		t.Errorf("breakdown has %d facets, want 4: %v", len(top.Scores), top.Scores)
	}
	if resp.TopK != 1 {
		t.Errorf("top_k = %d, want 1", resp.TopK)
	}
	if resp.TotalMatched != 2 {
		t.Errorf("total_matched = %d, want 2", resp.TotalMatched)
	}
	if len(resp.Weights) == 0 {
		t.Error("applied weights must be echoed back")
	}
}

func TestRecommend_CustomWeights(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend",
		`{"query":"anything","weights":{"nlu":1},"top_k":2}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp RecommendResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Weights) != 1 || resp.Weights["nlu"] != 1 {
		t.Errorf("applied weights = %v, want only nlu", resp.Weights)
	}
	// Query vector aligns with thermal-01, orthogonal to gas-01.
	if resp.Recommendations[0].ID != "thermal-01" {
		t.Errorf("top id = %q, want thermal-01", resp.Recommendations[0].ID)
	}
}

func TestRecommend_EmptyBody(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend", `not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", resp.Code, codeBadRequest)
	}
}

func TestRecommend_MissingQuery(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend", `{"top_k":3}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestRecommend_UnknownFacet(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend",
		`{"query":"x","weights":{"color":1}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, codeValidationFailed)
	}
}

func TestRecommend_ZeroWeights(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend",
		`{"query":"x","weights":{"type":0,"nlu":0}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestRecommend_NegativeTopK(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend",
		`{"query":"x","top_k":-3}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestRecommend_InvalidMinScore(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend",
		`{"query":"x","min_score":1.5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestRecommend_EmbeddingProviderDown(t *testing.T) {
	router := newTestRouter(t, serverOpts{
		items:    testCatalog(t),
		embedErr: fmt.Errorf("%w: rate limited", domain.ErrEmbeddingProviderError),
	})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend", `{"query":"x"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeEmbeddingProviderError {
		t.Errorf("code = %q, want %q", resp.Code, codeEmbeddingProviderError)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	router := newTestRouter(t, serverOpts{})

	rr := doRequest(t, router, http.MethodPost, "/api/recommend", `{"query":"x"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty catalog", rr.Code)
	}
	var resp RecommendResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("got %d recommendations, want 0", len(resp.Recommendations))
	}
}

func TestQuickSearch_OK(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodGet, "/api/quick-search?q=fire&limit=5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp QuickSearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != len(resp.Results) {
		t.Errorf("total %d != len(results) %d", resp.Total, len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Score < quickSearchMinScore {
			t.Errorf("result %s score %v below quick-search threshold", r.ID, r.Score)
		}
	}
}

func TestQuickSearch_MissingQuery(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodGet, "/api/quick-search", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestQuickSearch_BadLimit(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	for _, limit := range []string{"abc", "0", "-2"} {
		rr := doRequest(t, router, http.MethodGet, "/api/quick-search?q=fire&limit="+limit, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rr.Code)
		}
	}
}

func TestSensorTypes(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodGet, "/api/sensor-types", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp SensorTypesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalSensors != 2 {
		t.Errorf("total_sensors = %d, want 2", resp.TotalSensors)
	}
	if resp.SensorTypes["thermal"] != 1 || resp.SensorTypes["gas"] != 1 {
		t.Errorf("sensor_types = %v", resp.SensorTypes)
	}
}

func TestStatus(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodGet, "/api/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp StatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Ready {
		t.Error("ready = false, want true")
	}
	if resp.TotalSensors != 2 {
		t.Errorf("total_sensors = %d, want 2", resp.TotalSensors)
	}
}

func TestHealth_OK(t *testing.T) {
	router := newTestRouter(t, serverOpts{items: testCatalog(t)})

	rr := doRequest(t, router, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHealth_Degraded(t *testing.T) {
	router := newTestRouter(t, serverOpts{
		items: testCatalog(t),
		dbErr: fmt.Errorf("conn refused"),
	})

	rr := doRequest(t, router, http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("database check = %q, want error", resp.Checks["database"])
	}
}
