package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/model"
)

func TestShowAccount(t *testing.T) {
	t.Run("by login", func(t *testing.T) {
		e := newTestEnv(t)
		account := model.NewAccount(77, "octocat", "The Octocat", "octocat@example.com", "gho_secret", "")
		account.Privileges = []model.Privilege{{ID: 1, Name: "build"}}
		e.accounts.On("FetchAccount", mock.Anything, model.KeyName("octocat")).Return(account, nil)
		e.accounts.On("EffectivePrivileges", mock.Anything, model.KeyID(77)).Return([]string{"build", "release"}, nil)

		w := e.get("/accounts/octocat")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "octocat", body["login"])
		assert.Equal(t, []interface{}{"build", "release"}, body["effective_privileges"])
		assert.NotContains(t, w.Body.String(), "gho_secret")
	})

	t.Run("by id", func(t *testing.T) {
		e := newTestEnv(t)
		account := model.NewAccount(77, "octocat", "", "", "", "")
		e.accounts.On("FetchAccount", mock.Anything, model.KeyID(77)).Return(account, nil)
		e.accounts.On("EffectivePrivileges", mock.Anything, model.KeyID(77)).Return(nil, nil)

		w := e.get("/accounts/77")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"effective_privileges":[]`)
	})

	t.Run("numeric login", func(t *testing.T) {
		e := newTestEnv(t)
		account := model.NewAccount(88, "1234", "", "", "", "")
		e.accounts.On("FetchAccount", mock.Anything, model.KeyName("1234")).Return(account, nil)
		e.accounts.On("EffectivePrivileges", mock.Anything, model.KeyID(88)).Return(nil, nil)

		w := e.get("/accounts/name:1234")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"login":"1234"`)
	})

	t.Run("unknown account", func(t *testing.T) {
		e := newTestEnv(t)
		e.accounts.On("FetchAccount", mock.Anything, model.KeyName("ghost")).Return(nil, nil)

		w := e.get("/accounts/ghost")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "account not found: ghost")
	})

	t.Run("store failure", func(t *testing.T) {
		e := newTestEnv(t)
		e.accounts.On("FetchAccount", mock.Anything, model.KeyName("octocat")).Return(nil, errors.New("boom"))

		w := e.get("/accounts/octocat")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}
