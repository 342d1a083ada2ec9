package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/k8s-demo/order-service/internal/handlers"
	"github.com/k8s-demo/order-service/internal/middleware"
	"github.com/k8s-demo/order-service/internal/repository"
	"github.com/k8s-demo/order-service/internal/service"
	"github.com/k8s-demo/order-service/pkg/logger"
)

type stubIDGenerator struct{}

func (stubIDGenerator) NextID() int { return 41 }

func newTestServer(t *testing.T, withMetrics bool) *httptest.Server {
	t.Helper()

	log := logger.New("error")

	opts := []service.Option{service.WithLogger(log)}

	var metrics *middleware.Metrics
	if withMetrics {
		metrics = middleware.NewMetrics(prometheus.NewRegistry())
		opts = append(opts, service.WithRecorder(metrics))
	}

	svc := service.NewOrderService(repository.NewSampleOrderRepository(), stubIDGenerator{}, opts...)

	h := New(
		handlers.NewOrderHandler(svc, log),
		handlers.NewHealthHandler(svc, log),
		Options{Logger: log, Metrics: metrics},
	)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Routes(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"order health", http.MethodGet, "/api/orders/health", "", http.StatusOK},
		{"root health", http.MethodGet, "/health", "", http.StatusOK},
		{"list", http.MethodGet, "/api/orders", "", http.StatusOK},
		{"list trailing slash", http.MethodGet, "/api/orders/", "", http.StatusOK},
		{"get", http.MethodGet, "/api/orders/12", "", http.StatusOK},
		{"get invalid id", http.MethodGet, "/api/orders/abc", "", http.StatusBadRequest},
		{"create", http.MethodPost, "/api/orders", `{"quantity": 1}`, http.StatusOK},
		{"create malformed", http.MethodPost, "/api/orders", `{`, http.StatusBadRequest},
		{"unknown path", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/orders/1", "", http.StatusMethodNotAllowed},
		{"metrics disabled", http.MethodGet, "/metrics", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, body)
			if err != nil {
				t.Fatalf("failed to build request: %v", err)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if resp.Header.Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestRouter_HealthBody(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/api/orders/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if health["status"] != "healthy" || health["service"] != "order-service" {
		t.Errorf("health = %v", health)
	}
}

func TestRouter_CORS(t *testing.T) {
	srv := newTestServer(t, false)

	t.Run("simple request from any origin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/orders", nil)
		req.Header.Set("Origin", "https://shop.example.com")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/orders", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("preflight status = %d, want 200", resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
		if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
			t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
		}
	})
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, true)

	for i := 0; i < 2; i++ {
		resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(`{}`))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		resp.Body.Close()
	}
	resp, err := http.Get(srv.URL + "/api/orders/3")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}

	data, _ := io.ReadAll(resp.Body)
	body := string(data)

	for _, want := range []string{
		"orders_created_total 2",
		`http_requests_total{method="POST",route="/api/orders",status="200"} 2`,
		`http_requests_total{method="GET",route="/api/orders/{id}",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
