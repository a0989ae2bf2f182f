package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoggingMiddleware(t *testing.T) {
	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Logging(zap.NewNop().Sugar())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get("X-Request-ID"))
}

func TestResponseWriter_TracksStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	rw.Write([]byte("hello"))
	rw.Write([]byte(" world"))

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, 11, rw.size)
}
