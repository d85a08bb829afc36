// Package web serves the single-page todo client.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var static embed.FS

// Register serves the client at GET / and its assets. apiURL is the base the
// browser uses for API calls, e.g. http://localhost:5000/api.
func Register(r gin.IRouter, apiURL string) error {
	index, err := static.ReadFile("static/index.html")
	if err != nil {
		return fmt.Errorf("read index.html: %w", err)
	}
	app, err := static.ReadFile("static/app.js")
	if err != nil {
		return fmt.Errorf("read app.js: %w", err)
	}
	quoted, err := json.Marshal(apiURL)
	if err != nil {
		return fmt.Errorf("encode api url: %w", err)
	}
	config := []byte(fmt.Sprintf("window.API_URL = %s;\n", quoted))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.GET("/app.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", app)
	})
	r.GET("/config.js", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", config)
	})
	return nil
}
