package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "stockscope/internal/core/context"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/accesslog"
	"stockscope/pkg/logger"
)

const maxLoggedBodyBytes = 1 << 20 // 1 MiB

// bodyRecorder tees the response body into buf.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if w.buf.Len() < maxLoggedBodyBytes {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	if w.buf.Len() < maxLoggedBodyBytes {
		w.buf.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// AccessLog records every mutating request to sink once the handler ran.
// Requests answered with 401 are not recorded. A failed append is logged
// and never fails the request.
func AccessLog(sink accesslog.Sink, annotator *accesslog.Annotator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !mutating(c.Request.Method) {
			c.Next()
			return
		}

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBodyBytes))
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if c.Writer.Status() == http.StatusUnauthorized {
			return
		}

		ctx := c.Request.Context()
		var request map[string]any
		if len(reqBody) > 0 {
			_ = json.Unmarshal(reqBody, &request)
		}
		var response any
		if rec.buf.Len() > 0 {
			_ = json.Unmarshal(rec.buf.Bytes(), &response)
		}

		objectType, objectID := accesslog.ExtractObject(c.Request.URL.Path, response)
		entry := accesslog.Entry{
			Timestamp:    entity.Now(),
			Tenant:       tenant.GetTenantID(ctx),
			Method:       c.Request.Method,
			URL:          c.Request.URL.RequestURI(),
			User:         accesslog.ResolveUser(appctx.GetUsername(ctx), request),
			ObjectType:   objectType,
			ObjectID:     objectID,
			RequestBody:  accesslog.Sanitize(request),
			ResponseBody: response,
			Details:      annotator.Annotate(c.Request.Method, response),
		}
		if err := sink.Append(ctx, entry); err != nil {
			logger.Warn(ctx, "access log append failed", "error", err, "url", entry.URL)
		}
	}
}
