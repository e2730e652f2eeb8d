package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddlewarePreservesFlush(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}

	handler := s.LoggingMiddleware(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok, "wrapped writer must support Flush")
		_, _ = w.Write([]byte("chunk"))
		f.Flush()
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.True(t, rec.Flushed)
	require.Equal(t, "chunk", rec.Body.String())
}

func TestStatusWriterWorksWithResponseController(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}

	require.NoError(t, http.NewResponseController(sw).Flush())
	require.True(t, rec.Flushed)
}
