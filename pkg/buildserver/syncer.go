package buildserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// Result summarises a sync
type Result struct {
	Added    int      `json:"added"`
	Updated  int      `json:"updated"`
	Restored int      `json:"restored"`
	Removed  int64    `json:"removed"`
	Skipped  []string `json:"skipped,omitempty"`
}

// ListerFactory returns the job lister for a server
type ListerFactory func(server *model.BuildServer) JobLister

// Syncer mirrors Jenkins jobs into builders
type Syncer struct {
	builders store.BuildersStore
	lister   ListerFactory
}

// NewSyncer creates a syncer talking to Jenkins with the given request
// timeout; zero means no timeout.
func NewSyncer(builders store.BuildersStore, timeout time.Duration) *Syncer {
	httpClient := &http.Client{Timeout: timeout}
	return &Syncer{
		builders: builders,
		lister: func(server *model.BuildServer) JobLister {
			return NewJenkinsLister(server, httpClient)
		},
	}
}

// WithLister replaces the way job listers are created.
func (s *Syncer) WithLister(f ListerFactory) *Syncer {
	s.lister = f
	return s
}

// Sync creates builders for new jobs, refreshes the display name and
// description of known ones, restores builders whose job reappeared and
// marks builders whose job is gone as removed.
func (s *Syncer) Sync(ctx context.Context, server *model.BuildServer) (*Result, error) {
	logger := log.WithServer(server.Address)

	jobs, err := s.lister(server).ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	keep := make([]string, 0, len(jobs))

	for _, job := range jobs {
		builder, err := s.builders.FetchBuilder(ctx, job.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch builder %s: %w", job.Name, err)
		}

		switch {
		case builder == nil:
			builder = model.NewBuilder(job.Name, job.DisplayName, job.Description, true)
			builder.ServerID = server.ID
			result.Added++
		case builder.ServerID != server.ID:
			logger.WithField("builder", job.Name).
				WithField("owner", builder.ServerID).
				Warn("builder name is owned by another build server, skipping")
			result.Skipped = append(result.Skipped, job.Name)
			continue
		case builder.Removed:
			builder.Removed = false
			builder.DisplayName = job.DisplayName
			builder.Description = job.Description
			result.Restored++
		case builder.DisplayName != job.DisplayName || builder.Description != job.Description:
			builder.DisplayName = job.DisplayName
			builder.Description = job.Description
			result.Updated++
		default:
			keep = append(keep, job.Name)
			continue
		}

		if err := s.builders.SaveBuilder(ctx, builder); err != nil {
			return nil, fmt.Errorf("failed to save builder %s: %w", job.Name, err)
		}
		keep = append(keep, job.Name)
	}

	removed, err := s.builders.MarkRemoved(ctx, server.ID, keep)
	if err != nil {
		return nil, fmt.Errorf("failed to mark removed builders: %w", err)
	}
	result.Removed = removed

	logger.WithField("added", result.Added).
		WithField("updated", result.Updated).
		WithField("restored", result.Restored).
		WithField("removed", result.Removed).
		Info("build server synced")
	return result, nil
}
