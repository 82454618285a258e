package buildserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/saltstack/porch/pkg/model"
)

// Job is a Jenkins job as seen by the syncer
type Job struct {
	Name        string
	DisplayName string
	Description string
}

// JobLister lists the jobs of a build server
type JobLister interface {
	ListJobs(ctx context.Context) ([]Job, error)
}

// JenkinsLister lists jobs through the Jenkins JSON API
type JenkinsLister struct {
	server     *model.BuildServer
	httpClient *http.Client
}

// NewJenkinsLister creates a lister for server. A nil httpClient uses the
// default client.
func NewJenkinsLister(server *model.BuildServer, httpClient *http.Client) *JenkinsLister {
	return &JenkinsLister{server: server, httpClient: httpClient}
}

// ListJobs returns every job of the server with its display name and
// description
func (l *JenkinsLister) ListJobs(ctx context.Context) ([]Job, error) {
	jenkins, err := l.server.ClientWith(l.httpClient).Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", l.server.Address, err)
	}

	jobs, err := jenkins.GetAllJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs of %s: %w", l.server.Address, err)
	}

	result := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		job := Job{Name: j.GetName()}
		if details := j.GetDetails(); details != nil {
			job.DisplayName = details.DisplayName
			job.Description = details.Description
		}
		result = append(result, job)
	}
	return result, nil
}
