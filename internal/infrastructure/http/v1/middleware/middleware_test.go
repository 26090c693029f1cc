package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/core/apperror"
	appctx "stockscope/internal/core/context"
	"stockscope/internal/core/security"
	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/accesslog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	type payload struct {
		Name string `json:"name" binding:"required"`
	}

	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name: "app error",
			handler: func(c *gin.Context) {
				_ = c.Error(apperror.NewNotFound("customer", "42"))
			},
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"message": "customer not found"},
		},
		{
			name: "insufficient stock is a 400",
			handler: func(c *gin.Context) {
				_ = c.Error(apperror.NewInsufficientStock("stock", 10, 4))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"message": "Not enough stock"},
		},
		{
			name: "binding failure becomes validation error",
			handler: func(c *gin.Context) {
				var p payload
				_ = c.Error(c.ShouldBindJSON(&p))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"message": "Invalid fields: name"},
		},
		{
			name: "unknown error exposes cause",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("disk on fire"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"message": "Internal server error", "error": "disk on fire"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.POST("/", tt.handler)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decode(t, rec))
		})
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "panic value stays out of the body",
			handler:    func(*gin.Context) { panic("secret dsn postgres://app:pw@db") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"message": "Internal server error"},
		},
		{
			name:       "panic error",
			handler:    func(*gin.Context) { panic(errors.New("nil map write")) },
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"message": "Internal server error"},
		},
		{
			name: "response already started",
			handler: func(c *gin.Context) {
				c.Status(http.StatusAccepted)
				c.Writer.WriteHeaderNow()
				panic("late")
			},
			wantStatus: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(), Recovery())
			r.GET("/", tt.handler)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, decode(t, rec))
			} else {
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Trace())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = appctx.GetRequestID(c.Request.Context()) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))
}

type fakePools struct{ err error }

func (f fakePools) GetPool(context.Context, string) (*tenant.ManagedPool, error) {
	return nil, f.err
}

func TestTenantDB_Errors(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		err        error
		wantStatus int
	}{
		{name: "missing header", wantStatus: http.StatusBadRequest},
		{name: "unknown tenant", header: "acme", err: tenant.ErrTenantNotFound, wantStatus: http.StatusNotFound},
		{name: "suspended tenant", header: "acme", err: tenant.ErrTenantNotActive, wantStatus: http.StatusForbidden},
		{name: "database unreachable", header: "acme", err: errors.New("connect tenant acme: dial tcp: refused"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(), TenantDB(fakePools{err: tt.err}))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

type fakeAuthn struct{}

func (fakeAuthn) Authenticate(token, _ string) (*appctx.UserContext, error) {
	switch token {
	case "admin":
		return &appctx.UserContext{UserID: "u1", Username: "admin", Role: int(security.RoleAdmin)}, nil
	case "viewer":
		return &appctx.UserContext{UserID: "u2", Username: "viewer", Role: int(security.RoleViewer)}, nil
	}
	return nil, apperror.NewUnauthorized("invalid or expired token")
}

func TestAuthAndRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "insufficient role", header: "Bearer viewer", wantStatus: http.StatusForbidden},
		{name: "admin", header: "Bearer admin", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(), Auth(fakeAuthn{}), RequireRole(security.RoleAdmin))
			r.GET("/", func(c *gin.Context) {
				c.String(http.StatusOK, appctx.GetUsername(c.Request.Context()))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
			}
		})
	}
}

type memSink struct {
	mu      sync.Mutex
	entries []accesslog.Entry
}

func (s *memSink) Append(_ context.Context, e accesslog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memSink) ReadAll(context.Context) ([]accesslog.Entry, error) {
	return s.entries, nil
}

func accessLogRouter(t *testing.T, sink *memSink) *gin.Engine {
	t.Helper()
	annotator, err := accesslog.NewAnnotator(accesslog.DefaultRules)
	require.NoError(t, err)

	r := gin.New()
	r.Use(AccessLog(sink, annotator), ErrorHandler())
	api := r.Group("/api", Auth(fakeAuthn{}))
	api.PATCH("/rawMaterials/:id/activate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Raw material status updated to active",
			"rawMaterial": gin.H{"id": c.Param("id"), "status": "active"},
		})
	})
	api.POST("/customers", func(c *gin.Context) {
		var body map[string]any
		require.NoError(t, c.ShouldBindJSON(&body))
		c.JSON(http.StatusCreated, gin.H{"message": "Customer created", "customer": gin.H{"id": "c-1"}})
	})
	api.GET("/customers", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	return r
}

func TestAccessLog(t *testing.T) {
	const lotID = "0190a0b2-7c1e-7d3a-9f00-1a2b3c4d5e6f"

	t.Run("records mutation with annotation", func(t *testing.T) {
		sink := &memSink{}
		req := httptest.NewRequest(http.MethodPatch, "/api/rawMaterials/"+lotID+"/activate", nil)
		req.Header.Set("Authorization", "Bearer admin")
		httptestServe(accessLogRouter(t, sink), req)

		require.Len(t, sink.entries, 1)
		e := sink.entries[0]
		assert.Equal(t, http.MethodPatch, e.Method)
		assert.Equal(t, "admin", e.User)
		assert.Equal(t, "rawMaterials", *e.ObjectType)
		assert.Equal(t, lotID, *e.ObjectID)
		assert.Equal(t, "Stoğa girişi yapılmıştır", e.Details)
		assert.Empty(t, e.RequestBody)
		assert.Zero(t, e.Timestamp.Nanosecond()%int(time.Microsecond), "timestamp finer than the archive marker")
		assert.Equal(t, time.UTC, e.Timestamp.Location())
	})

	t.Run("object from response body and password removed", func(t *testing.T) {
		sink := &memSink{}
		req := httptest.NewRequest(http.MethodPost, "/api/customers",
			strings.NewReader(`{"name":"Acme","password":"secret1"}`))
		req.Header.Set("Authorization", "Bearer admin")
		rec := httptestServe(accessLogRouter(t, sink), req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, sink.entries, 1)
		e := sink.entries[0]
		assert.Equal(t, "customer", *e.ObjectType)
		assert.Equal(t, "c-1", *e.ObjectID)
		assert.Equal(t, map[string]any{"name": "Acme"}, e.RequestBody)
	})

	t.Run("reads are not recorded", func(t *testing.T) {
		sink := &memSink{}
		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		req.Header.Set("Authorization", "Bearer admin")
		httptestServe(accessLogRouter(t, sink), req)

		assert.Empty(t, sink.entries)
	})

	t.Run("unauthorized requests are not recorded", func(t *testing.T) {
		sink := &memSink{}
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{}`))
		rec := httptestServe(accessLogRouter(t, sink), req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, sink.entries)
	})
}

func httptestServe(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type countObserver struct {
	route  string
	status int
}

func (o *countObserver) ObserveRequest(route, _ string, status int, _ time.Duration) {
	o.route, o.status = route, status
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	obs := &countObserver{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/api/stocks/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	httptestServe(r, httptest.NewRequest(http.MethodGet, "/api/stocks/7", nil))

	assert.Equal(t, "/api/stocks/:id", obs.route)
	assert.Equal(t, http.StatusNoContent, obs.status)
}
