package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"order-events/internal/eventbus"
	"order-events/internal/service"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	err error
}

func (s stubHealth) HealthCheck(ctx context.Context) error {
	return s.err
}

func newTestServer(bus eventbus.Publisher, health eventbus.HealthChecker) *Server {
	logger, _ := test.NewNullLogger()
	publisher := service.NewOrderPublisher(service.OrderPublisherConfig{
		Publisher:    bus,
		EventBusName: "orders-bus",
		Logger:       logger,
	})
	return NewServer(publisher, health, logger)
}

func TestServer_CreateOrder(t *testing.T) {
	bus := eventbus.NewMockPublisher()
	srv := newTestServer(bus, nil)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"customer":"Alice","total":250}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "✅ OrderCreated event published!", body["message"])
	assert.Len(t, bus.GetEntries(), 1)
}

func TestServer_CreateOrder_EmptyBody(t *testing.T) {
	bus := eventbus.NewMockPublisher()
	srv := newTestServer(bus, nil)

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, bus.GetEntries()[0].Detail, `"customer":"John Doe"`)
}

func TestServer_CreateOrder_BusFailure(t *testing.T) {
	bus := eventbus.NewMockPublisher()
	bus.Err = errors.New("bus unreachable")
	srv := newTestServer(bus, nil)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to publish event"}`, rec.Body.String())
}

func TestServer_Healthz(t *testing.T) {
	tests := []struct {
		name   string
		health eventbus.HealthChecker
		want   int
	}{
		{name: "no checker", health: nil, want: http.StatusOK},
		{name: "healthy", health: stubHealth{}, want: http.StatusOK},
		{name: "unhealthy", health: stubHealth{err: errors.New("broker down")}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(eventbus.NewMockPublisher(), tt.health)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(eventbus.NewMockPublisher(), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
