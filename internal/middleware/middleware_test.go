package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"catalog/internal/metrics"
	"catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.Metrics(m))
	app.Post("/echo", middleware.RequireContentType(fiber.MIMEApplicationJSON), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRequireContentType(t *testing.T) {
	app := newTestApp(metrics.New())

	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"json", "application/json", http.StatusNoContent},
		{"missing", "", http.StatusUnsupportedMediaType},
		{"html", "text/html", http.StatusUnsupportedMediaType},
		{"json with charset", "application/json; charset=utf-8", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.want == http.StatusUnsupportedMediaType {
				body := decodeBody(t, resp)
				assert.Equal(t, float64(http.StatusUnsupportedMediaType), body["status"])
				assert.Equal(t, "Unsupported Media Type", body["error"])
				assert.Equal(t, "Content-Type must be application/json", body["message"])
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := newTestApp(metrics.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, "An internal error occurred", body["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decodeBody(t, resp)["message"])
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	app := newTestApp(m)

	for i := 0; i < 2; i++ {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
		require.NoError(t, err)
	}
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)

	expected := `
# HELP catalog_http_requests_total Number of HTTP requests by method, route and status code.
# TYPE catalog_http_requests_total counter
catalog_http_requests_total{method="GET",route="/boom",status="500"} 1
catalog_http_requests_total{method="GET",route="/teapot",status="418"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "catalog_http_requests_total"))
}
