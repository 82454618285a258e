package buildserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/model"
)

func TestJenkinsLister_ListJobs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/json", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jenkins" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("X-Jenkins", "2.426")
		_, _ = w.Write([]byte(`{"jobs":[{"name":"salt-pr","color":"blue"},{"name":"docs","color":"red"}]}`))
	})
	mux.HandleFunc("/job/salt-pr/api/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"salt-pr","displayName":"Salt PRs","description":"**PR** builds"}`))
	})
	mux.HandleFunc("/job/docs/api/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"docs","displayName":"docs","description":""}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	server := model.NewBuildServer(srv.URL, "jenkins", "secret")
	jobs, err := NewJenkinsLister(server, srv.Client()).ListJobs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Job{
		{Name: "salt-pr", DisplayName: "Salt PRs", Description: "**PR** builds"},
		{Name: "docs", DisplayName: "docs"},
	}, jobs)
}
