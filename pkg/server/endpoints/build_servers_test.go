package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/buildserver"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

func testBuildServer() *model.BuildServer {
	s := model.NewBuildServer("https://jenkins.example.com", "jenkins", "api-token")
	s.ID = 3
	return s
}

func TestListBuildServers(t *testing.T) {
	e := newTestEnv(t)
	e.servers.On("ListBuildServers", mock.Anything).Return([]model.BuildServer{*testBuildServer()}, nil)

	w := e.get("/servers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"address":"https://jenkins.example.com"`)
	assert.NotContains(t, w.Body.String(), "api-token")
}

func TestShowBuildServer(t *testing.T) {
	t.Run("by id", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("FetchBuildServer", mock.Anything, model.KeyID(3)).Return(testBuildServer(), nil)

		w := e.get("/servers/3")
		require.Equal(t, http.StatusOK, w.Code)

		var body model.BuildServer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(3), body.ID)
		assert.Empty(t, body.AccessToken)
	})

	t.Run("by escaped address", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("FetchBuildServer", mock.Anything, model.KeyName("https://jenkins.example.com")).
			Return(testBuildServer(), nil)

		w := e.get("/servers/" + url.PathEscape("https://jenkins.example.com"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("FetchBuildServer", mock.Anything, model.KeyID(9)).Return(nil, nil)

		w := e.get("/servers/9")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListBuilders(t *testing.T) {
	builders := []model.Builder{
		*model.NewBuilder("salt-nightly", "Salt Nightly", "", true),
	}

	t.Run("active only by default", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("FetchBuildServer", mock.Anything, model.KeyID(3)).Return(testBuildServer(), nil)
		e.servers.On("FetchBuilders", mock.Anything, int64(3), false).Return(builders, nil)

		w := e.get("/servers/3/builders")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "salt-nightly")
	})

	t.Run("including removed", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("FetchBuildServer", mock.Anything, model.KeyID(3)).Return(testBuildServer(), nil)
		e.servers.On("FetchBuilders", mock.Anything, int64(3), true).Return(nil, nil)

		w := e.get("/servers/3/builders?include_removed=true")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("bad flag", func(t *testing.T) {
		e := newTestEnv(t)

		w := e.get("/servers/3/builders?include_removed=maybe")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteBuildServer(t *testing.T) {
	t.Run("admin deletes", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("DeleteBuildServer", mock.Anything, model.KeyID(3)).Return(nil)

		w := e.do(http.MethodDelete, "/servers/3", adminToken)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		e := newTestEnv(t)

		w := e.do(http.MethodDelete, "/servers/3", userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing server", func(t *testing.T) {
		e := newTestEnv(t)
		e.servers.On("DeleteBuildServer", mock.Anything, model.KeyID(3)).
			Return(fmt.Errorf("build server 3: %w", store.ErrNotFound))

		w := e.do(http.MethodDelete, "/servers/3", adminToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSyncBuildServer(t *testing.T) {
	t.Run("admin syncs", func(t *testing.T) {
		e := newTestEnv(t, buildserver.Job{Name: "salt-nightly", DisplayName: "Salt Nightly"})
		e.servers.On("FetchBuildServer", mock.Anything, model.KeyID(3)).Return(testBuildServer(), nil)
		e.builders.On("FetchBuilder", mock.Anything, "salt-nightly").Return(nil, nil)
		e.builders.On("SaveBuilder", mock.Anything, mock.MatchedBy(func(b *model.Builder) bool {
			return b.Name == "salt-nightly" && b.ServerID == 3 && !b.Removed
		})).Return(nil)
		e.builders.On("MarkRemoved", mock.Anything, int64(3), []string{"salt-nightly"}).Return(int64(2), nil)

		w := e.do(http.MethodPost, "/servers/3/sync", adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result buildserver.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, int64(2), result.Removed)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		e := newTestEnv(t)

		w := e.do(http.MethodPost, "/servers/3/sync", userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		e := newTestEnv(t)

		w := e.do(http.MethodGet, "/servers/3/sync", userToken)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
