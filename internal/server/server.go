// Package server exposes the triage engine over HTTP. The engine is held
// behind an atomic pointer so a slow startup (or a future reload) never
// blocks request handling: requests arriving before the model is ready get
// a clean 503 instead of a hang.
package server

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nightjar-labs/triage/internal/engine"
	"github.com/nightjar-labs/triage/internal/model"
)

// maxBodyBytes caps the request body; symptom payloads are tiny.
const maxBodyBytes = 1 << 20

// sampleSize is how many vocabulary tokens an unmatched-symptoms error
// response includes as a hint.
const sampleSize = 10

// predictRequest accepts either a symptom list or free text. When both are
// present the list wins.
type predictRequest struct {
	Symptoms []string `json:"symptoms"`
	Text     string   `json:"text"`
}

// Server routes triage requests to the engine.
type Server struct {
	engine atomic.Pointer[engine.Engine]
}

// New creates a Server. A nil engine is allowed; SetEngine installs it once
// startup completes.
func New(e *engine.Engine) *Server {
	s := &Server{}
	if e != nil {
		s.engine.Store(e)
	}
	return s
}

// SetEngine atomically swaps the serving engine.
func (s *Server) SetEngine(e *engine.Engine) {
	s.engine.Store(e)
}

// Router builds the gin handler tree.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/health", s.handleHealth)
	router.GET("/symptoms", s.handleSymptoms)
	router.GET("/diseases", s.handleDiseases)
	router.POST("/predict", s.handlePredict)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.engine.Load() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSymptoms(c *gin.Context) {
	e := s.engine.Load()
	if e == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not ready"})
		return
	}
	tokens := e.Vocabulary()
	c.JSON(http.StatusOK, gin.H{
		"symptoms": tokens,
		"count":    len(tokens),
	})
}

func (s *Server) handleDiseases(c *gin.Context) {
	e := s.engine.Load()
	if e == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not ready"})
		return
	}
	diseases := e.Diseases()
	c.JSON(http.StatusOK, gin.H{
		"diseases": diseases,
		"count":    len(diseases),
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	e := s.engine.Load()
	if e == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not ready"})
		return
	}

	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(req.Symptoms) == 0 && req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide symptoms or text"})
		return
	}

	pred, err := predictWith(e, req)
	if err != nil {
		if errors.Is(err, engine.ErrNoSymptomsMatched) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":                     "no symptoms matched the known vocabulary",
				"received_symptoms":         req.Symptoms,
				"available_symptoms_sample": sample(e.Vocabulary(), sampleSize),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	c.JSON(http.StatusOK, pred)
}

func predictWith(e *engine.Engine, req predictRequest) (model.Prediction, error) {
	if len(req.Symptoms) > 0 {
		return e.Predict(req.Symptoms)
	}
	return e.PredictText(req.Text)
}

func sample(tokens []string, n int) []string {
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
