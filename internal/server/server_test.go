package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nightjar-labs/triage/internal/bootstrap"
	"github.com/nightjar-labs/triage/internal/config"
	"github.com/nightjar-labs/triage/internal/model"
	"github.com/nightjar-labs/triage/internal/testdata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	if err := testdata.WriteTables(dir); err != nil {
		t.Fatal(err)
	}
	cfg := config.Load()
	cfg.Data.Dir = dir
	cfg.Data.CachePath = dir + "/model.json"
	cfg.Trainer.Trees = 25

	res, err := bootstrap.Run(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return New(res.Engine).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
}

func TestHealthBeforeModelReady(t *testing.T) {
	router := New(nil).Router()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /health before startup = %d, want 503", w.Code)
	}
}

func TestSymptomsList(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/symptoms", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /symptoms = %d, want 200", w.Code)
	}

	var resp struct {
		Symptoms []string `json:"symptoms"`
		Count    int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 14 || len(resp.Symptoms) != 14 {
		t.Errorf("symptom count = %d (%d listed), want 14", resp.Count, len(resp.Symptoms))
	}
}

func TestDiseasesList(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/diseases", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /diseases = %d, want 200", w.Code)
	}

	var resp struct {
		Diseases []string `json:"diseases"`
		Count    int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 4 {
		t.Errorf("disease count = %d, want 4", resp.Count)
	}
}

func TestPredictSymptomList(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/predict", map[string]any{
		"symptoms": []string{"chest pain", "shortness of breath"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /predict = %d, body %s", w.Code, w.Body.String())
	}

	var pred model.Prediction
	if err := json.Unmarshal(w.Body.Bytes(), &pred); err != nil {
		t.Fatal(err)
	}
	if pred.Disease != "Heart Attack" {
		t.Errorf("disease = %q, want Heart Attack", pred.Disease)
	}
	if pred.Severity != model.TierCritical {
		t.Errorf("severity = %q, want critical", pred.Severity)
	}
	if pred.Confidence < 0.25 || pred.Confidence > 0.95 {
		t.Errorf("confidence %v outside [0.25, 0.95]", pred.Confidence)
	}
}

func TestPredictFreeText(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/predict", map[string]any{
		"text": "I have a fever and a bad cough, also a runny nose",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /predict = %d, body %s", w.Code, w.Body.String())
	}

	var pred model.Prediction
	if err := json.Unmarshal(w.Body.Bytes(), &pred); err != nil {
		t.Fatal(err)
	}
	if pred.Disease != "Common Cold" {
		t.Errorf("disease = %q, want Common Cold", pred.Disease)
	}
	if len(pred.MatchedSymptoms) == 0 {
		t.Error("no matched symptoms in response")
	}
}

func TestPredictNoSymptomsMatched(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/predict", map[string]any{
		"symptoms": []string{"xyzzy"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST /predict with unknown symptoms = %d, want 422", w.Code)
	}

	var resp struct {
		Error             string   `json:"error"`
		ReceivedSymptoms  []string `json:"received_symptoms"`
		AvailableSymptoms []string `json:"available_symptoms_sample"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.AvailableSymptoms) == 0 || len(resp.AvailableSymptoms) > 10 {
		t.Errorf("available_symptoms_sample has %d entries", len(resp.AvailableSymptoms))
	}
	if len(resp.ReceivedSymptoms) != 1 || resp.ReceivedSymptoms[0] != "xyzzy" {
		t.Errorf("received_symptoms = %v", resp.ReceivedSymptoms)
	}
}

func TestPredictEmptyPayload(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/predict", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /predict with empty payload = %d, want 400", w.Code)
	}
}

func TestPredictMalformedJSON(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /predict with malformed JSON = %d, want 400", w.Code)
	}
}

func TestPredictBeforeModelReady(t *testing.T) {
	router := New(nil).Router()

	w := doJSON(t, router, http.MethodPost, "/predict", map[string]any{
		"symptoms": []string{"fever"},
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("POST /predict before startup = %d, want 503", w.Code)
	}
}
