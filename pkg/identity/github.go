package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// ErrBadCredentials is returned when GitHub rejects an access token
var ErrBadCredentials = errors.New("github rejected the access token")

// User is the part of a GitHub profile an account is built from
type User struct {
	ID        int64
	Login     string
	Name      string
	Email     string
	AvatarURL string
}

// UserFetcher looks up the GitHub user owning an access token
type UserFetcher interface {
	AuthenticatedUser(ctx context.Context, token string) (*User, error)
}

// GitHubClient fetches users from the GitHub API
type GitHubClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGitHubClient creates a client for public GitHub, or for a GitHub
// Enterprise instance when baseURL is not empty.
func NewGitHubClient(baseURL string) *GitHubClient {
	return &GitHubClient{baseURL: baseURL}
}

// WithHTTPClient sets the transport used beneath the OAuth2 token source.
func (c *GitHubClient) WithHTTPClient(httpClient *http.Client) *GitHubClient {
	c.httpClient = httpClient
	return c
}

func (c *GitHubClient) client(ctx context.Context, token string) (*gh.Client, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, ts))

	if c.baseURL == "" {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(c.baseURL, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", c.baseURL, err)
	}
	return client, nil
}

// AuthenticatedUser returns the user owning token
func (c *GitHubClient) AuthenticatedUser(ctx context.Context, token string) (*User, error) {
	client, err := c.client(ctx, token)
	if err != nil {
		return nil, err
	}

	u, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to fetch GitHub user: %w", err)
	}

	return &User{
		ID:        u.GetID(),
		Login:     u.GetLogin(),
		Name:      u.GetName(),
		Email:     u.GetEmail(),
		AvatarURL: u.GetAvatarURL(),
	}, nil
}
