package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/saltstack/porch/pkg/buildserver"
	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store/storetest"
)

const (
	userToken  = "gho_user"
	adminToken = "gho_admin"
)

var (
	testUser  = model.NewAccount(1001, "jdoe", "Jane Doe", "jdoe@example.com", userToken, "")
	testAdmin = model.NewAccount(1002, "ops", "Ops", "ops@example.com", adminToken, "")
	adminRef  = model.RawPrivilege("admin")
)

type fakeLister []buildserver.Job

func (f fakeLister) ListJobs(context.Context) ([]buildserver.Job, error) {
	return f, nil
}

// testEnv is a registered server over mock stores with two known tokens:
// userToken without privileges and adminToken holding "admin".
type testEnv struct {
	srv        *server.Server
	accounts   *storetest.MockAccountsStore
	groups     *storetest.MockGroupsStore
	privileges *storetest.MockPrivilegesStore
	servers    *storetest.MockBuildServersStore
	builders   *storetest.MockBuildersStore
	health     *storetest.MockHealthStore
}

func newTestEnv(t *testing.T, jobs ...buildserver.Job) *testEnv {
	t.Helper()

	e := &testEnv{
		accounts:   storetest.NewMockAccountsStore(),
		groups:     storetest.NewMockGroupsStore(),
		privileges: storetest.NewMockPrivilegesStore(),
		servers:    storetest.NewMockBuildServersStore(),
		builders:   storetest.NewMockBuildersStore(),
		health:     storetest.NewMockHealthStore(),
	}

	e.accounts.On("FetchAccountByToken", mock.Anything, userToken).Return(testUser, nil).Maybe()
	e.accounts.On("FetchAccountByToken", mock.Anything, adminToken).Return(testAdmin, nil).Maybe()
	e.accounts.On("FetchAccountByToken", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	e.accounts.On("HasPrivilege", mock.Anything, model.KeyID(testUser.ID), adminRef).Return(false, nil).Maybe()
	e.accounts.On("HasPrivilege", mock.Anything, model.KeyID(testAdmin.ID), adminRef).Return(true, nil).Maybe()

	cfg := &config.PorchConfig{BindAddress: "127.0.0.1", Port: 0, AdminPrivilege: "admin"}
	e.srv = server.NewServerWithStores(cfg, e.accounts, e.groups, e.privileges, e.servers, e.builders, e.health)
	e.srv.Syncer.WithLister(func(*model.BuildServer) buildserver.JobLister {
		return fakeLister(jobs)
	})
	RegisterAll(e.srv)

	t.Cleanup(func() {
		e.accounts.AssertExpectations(t)
		e.groups.AssertExpectations(t)
		e.privileges.AssertExpectations(t)
		e.servers.AssertExpectations(t)
		e.builders.AssertExpectations(t)
		e.health.AssertExpectations(t)
	})
	return e
}

func (e *testEnv) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, path, userToken)
}
