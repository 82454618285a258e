package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/server/middleware"
)

func TestHandleStatus(t *testing.T) {
	t.Run("returns HTML status page", func(t *testing.T) {
		e := newTestEnv(t)
		e.health.On("CheckConnectivity", mock.Anything).Return(nil)

		w := e.do("GET", "/", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Your Porch server is running!")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("returns JSON when Accept header is application/json", func(t *testing.T) {
		e := newTestEnv(t)
		e.health.On("CheckConnectivity", mock.Anything).Return(nil)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		e.srv.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var body StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Database)
	})

	t.Run("reports an unreachable database", func(t *testing.T) {
		e := newTestEnv(t)
		e.health.On("CheckConnectivity", mock.Anything).Return(errors.New("connection refused"))

		w := e.do("GET", "/?format=json", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
