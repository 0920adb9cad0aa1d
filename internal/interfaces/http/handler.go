// @title           Prediction Market Analysis API
// @version         1.0
// @description     Multi-agent analysis engine for prediction markets: agent signals, structured debate, consensus probabilities and trade recommendations
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appinterfaces "main/internal/application/interfaces"
	apprecommendations "main/internal/application/service/recommendations"
	domain "main/internal/domain/entity/analysis"
	interfaces "main/internal/domain/interfaces"
)

const (
	marketsBasePath = "/api/v1/markets"

	defaultAnalysesLimit = 10
)

var (
	errMissingMarketID = errors.New("missing market_id")
	errInvalidLimit    = errors.New("limit must be a positive integer")
)

type Handler struct {
	router          *gin.Engine
	recommendations *apprecommendations.Service
	publisher       interfaces.RequestPublisher
	cache           *redis.Client
	cacheTTL        time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(recs *apprecommendations.Service, publisher interfaces.RequestPublisher, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:          router,
		recommendations: recs,
		publisher:       publisher,
		cache:           cache,
		cacheTTL:        cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.router.GET("/health", h.healthCheck)

	markets := h.router.Group(marketsBasePath)
	if h.cache != nil {
		markets.Use(h.cacheMiddleware())
	}
	{
		markets.GET("/:market_id/recommendations/latest", h.getLatestRecommendation)
		markets.POST("/:market_id/analyses", h.requestAnalysis)
		markets.GET("/:market_id/analyses", h.listAnalyses)
	}
}

// Markets handlers

// getLatestRecommendation returns the newest stored recommendation for a market
// @Summary      Latest recommendation
// @Description  Get the most recent trade recommendation produced for a market
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        market_id  path      string  true  "Venue market id"
// @Success      200        {object}  domain.StoredRecommendation
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /markets/{market_id}/recommendations/latest [get]
func (h *Handler) getLatestRecommendation(c *gin.Context) {
	marketID := c.Param("market_id")
	if marketID == "" {
		writeError(c, http.StatusBadRequest, errMissingMarketID)
		return
	}
	stored, err := h.recommendations.GetLatestRecommendation(c.Request.Context(), marketID)
	if err != nil {
		switch {
		case errors.Is(err, apprecommendations.ErrEmptyMarketID):
			writeError(c, http.StatusBadRequest, err)
		case errors.Is(err, interfaces.ErrRecommendationNotFound):
			writeError(c, http.StatusNotFound, err)
		default:
			writeError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, stored)
}

// requestAnalysis queues an analysis run for a market
// @Summary      Request analysis
// @Description  Queue a full multi-agent analysis run for a market; the run executes asynchronously on a worker
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        market_id  path      string                  true   "Venue market id"
// @Param        request    body      analysisRequestPayload  false  "Optional request attributes"
// @Success      202        {object}  analysisAccepted
// @Failure      400        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /markets/{market_id}/analyses [post]
func (h *Handler) requestAnalysis(c *gin.Context) {
	marketID := c.Param("market_id")
	if marketID == "" {
		writeError(c, http.StatusBadRequest, errMissingMarketID)
		return
	}

	var payload analysisRequestPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
	}

	req := payload.toRequest(marketID)
	if err := h.publisher.PublishAnalysisRequest(c.Request.Context(), req); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusAccepted, analysisAccepted{
		RequestID: req.RequestID,
		MarketID:  req.MarketID,
		Status:    "queued",
	})
}

// listAnalyses lists recent analysis runs for a market
// @Summary      List analyses
// @Description  Get recent analysis run records for a market, newest first
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        market_id  path      string  true   "Venue market id"
// @Param        limit      query     int     false  "Max records to return (default 10)"
// @Success      200        {array}   domain.Record
// @Failure      400        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /markets/{market_id}/analyses [get]
func (h *Handler) listAnalyses(c *gin.Context) {
	marketID := c.Param("market_id")
	if marketID == "" {
		writeError(c, http.StatusBadRequest, errMissingMarketID)
		return
	}
	limit, err := parseLimitQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	records, err := h.recommendations.ListAnalyses(c.Request.Context(), marketID, limit)
	if err != nil {
		switch {
		case errors.Is(err, apprecommendations.ErrEmptyMarketID),
			errors.Is(err, apprecommendations.ErrInvalidLimit):
			writeError(c, http.StatusBadRequest, err)
		default:
			writeError(c, http.StatusInternalServerError, err)
		}
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// healthCheck reports process liveness.
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Helpers

type analysisRequestPayload struct {
	Type        string `json:"type,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

func (p analysisRequestPayload) toRequest(marketID string) interfaces.AnalysisRequest {
	requestedBy := p.RequestedBy
	if requestedBy == "" {
		requestedBy = "api"
	}
	return interfaces.AnalysisRequest{
		MarketID:    marketID,
		RequestID:   uuid.NewString(),
		Type:        p.Type,
		RequestedBy: requestedBy,
	}
}

type analysisAccepted struct {
	RequestID string `json:"request_id"`
	MarketID  string `json:"market_id"`
	Status    string `json:"status"`
}

func parseLimitQuery(c *gin.Context) (int, error) {
	value := c.Query("limit")
	if value == "" {
		return defaultAnalysesLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, errInvalidLimit
	}
	return limit, nil
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

// cacheKey keys on the concrete request path, not the route pattern, so
// different markets never share an entry.
func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery)
}
