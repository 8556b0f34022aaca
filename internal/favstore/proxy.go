package favstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/llehouerou/airwaves/internal/catalog"
)

// Stations forwards a station search. Without query parameters the top
// stations by votes are returned.
func (a *API) Stations(c *gin.Context) {
	q := c.Request.URL.Query()
	if len(q) == 0 {
		q = catalog.DefaultSearch()
	}
	a.forward(c, "/stations/search", q)
}

// StationsByUUID forwards a lookup by comma-separated identifiers.
func (a *API) StationsByUUID(c *gin.Context) {
	ids := strings.Split(c.Param("uuids"), ",")
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			escaped = append(escaped, url.PathEscape(id))
		}
	}
	if len(escaped) == 0 {
		c.JSON(http.StatusBadRequest, Response{Error: "station identifiers are required"})
		return
	}
	a.forward(c, "/stations/byuuid/"+strings.Join(escaped, ","), nil)
}

// Tags forwards the tag list.
func (a *API) Tags(c *gin.Context) {
	a.forward(c, "/tags", c.Request.URL.Query())
}

// Countries forwards the country list.
func (a *API) Countries(c *gin.Context) {
	a.forward(c, "/countries", c.Request.URL.Query())
}

// forward relays the upstream body inside the response envelope.
func (a *API) forward(c *gin.Context, path string, q url.Values) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	body, err := a.directory.Forward(ctx, path, q)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("directory request failed")
		msg := "failed to reach station directory"
		var se *catalog.StatusError
		switch {
		case errors.As(err, &se):
			msg = "directory error: " + se.Status
		case errors.Is(err, catalog.ErrResponseTooLarge):
			msg = "directory response too large"
		}
		c.JSON(http.StatusBadGateway, Response{Error: msg})
		return
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadGateway, Response{Error: "invalid directory response"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: json.RawMessage(body)})
}
