package favstore

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/favorites"
)

const requestTimeout = 15 * time.Second

// Forwarder fetches a directory path verbatim.
type Forwarder interface {
	Forward(ctx context.Context, path string, q url.Values) ([]byte, error)
}

// API holds the HTTP handlers.
type API struct {
	store     favorites.Store
	directory Forwarder
	log       zerolog.Logger
}

// NewAPI creates the handlers. directory may be nil to disable the proxy.
func NewAPI(store favorites.Store, directory Forwarder, log zerolog.Logger) *API {
	return &API{store: store, directory: directory, log: log}
}

// Response is the envelope of every reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type mutationRequest struct {
	StationID string `json:"stationuuid" binding:"required"`
}

// NewRouter creates and configures the gin router.
func NewRouter(api *API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(api.log))
	r.Use(corsMiddleware())

	fav := r.Group("/api/favorites/:userId")
	{
		fav.GET("", api.GetFavorites)
		fav.POST("", api.AddFavorite)
		fav.DELETE("", api.RemoveFavorite)
	}

	if api.directory != nil {
		radio := r.Group("/api/radio")
		{
			radio.GET("/stations", api.Stations)
			radio.GET("/stations/byuuid/:uuids", api.StationsByUUID)
			radio.GET("/tags", api.Tags)
			radio.GET("/countries", api.Countries)
		}
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"status": "ok"}})
	})

	return r
}

// GetFavorites returns the record of a user; 404 for an unknown user.
func (a *API) GetFavorites(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rec, err := a.store.Get(ctx, c.Param("userId"))
	a.reply(c, rec, err)
}

// AddFavorite inserts a station into a user's record.
func (a *API) AddFavorite(c *gin.Context) {
	req, ok := bindMutation(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rec, err := a.store.Add(ctx, c.Param("userId"), req.StationID)
	a.reply(c, rec, err)
}

// RemoveFavorite deletes a station from a user's record.
func (a *API) RemoveFavorite(c *gin.Context) {
	req, ok := bindMutation(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rec, err := a.store.Remove(ctx, c.Param("userId"), req.StationID)
	a.reply(c, rec, err)
}

func bindMutation(c *gin.Context) (mutationRequest, bool) {
	var req mutationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StationID == "" {
		c.JSON(http.StatusBadRequest, Response{Error: "stationuuid is required"})
		return req, false
	}
	return req, true
}

func (a *API) reply(c *gin.Context, rec favorites.Record, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, Response{Success: true, Data: rec})
	case errors.Is(err, favorites.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Error: "favorites not found"})
	case errors.Is(err, favorites.ErrInvalidStationID):
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
	default:
		a.log.Error().Err(err).Str("user", c.Param("userId")).Msg("favorites request failed")
		c.JSON(http.StatusInternalServerError, Response{Error: "internal error"})
	}
}

// corsMiddleware handles CORS for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// Verify the catalog client can back the proxy.
var _ Forwarder = (*catalog.Client)(nil)
