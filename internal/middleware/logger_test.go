package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus int64
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusMethodNotAllowed)
			},
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			h := chimiddleware.RequestID(Logger(zap.New(core))(tt.handler))

			req := httptest.NewRequest(http.MethodPost, "/api/submit-order", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			entries := logs.FilterMessage("http request").All()
			require.Len(t, entries, 1)

			fields := entries[0].ContextMap()
			assert.Equal(t, tt.expectedStatus, fields["status"])
			assert.Equal(t, "POST", fields["method"])
			assert.Equal(t, "/api/submit-order", fields["path"])
			assert.NotEmpty(t, fields["request_id"])
		})
	}
}
