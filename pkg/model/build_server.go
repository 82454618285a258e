package model

import (
	"net/http"

	"github.com/bndr/gojenkins"
)

// BuildServer represents a remote Jenkins master
type BuildServer struct {
	ID          int64  `gorm:"column:id;primaryKey" json:"id"`
	Address     string `gorm:"column:address;size:256;not null;uniqueIndex" json:"address"`
	Username    string `gorm:"column:username;size:128;not null" json:"username"`
	AccessToken string `gorm:"column:access_token;size:128;not null" json:"-"`

	Builders []Builder `gorm:"foreignKey:ServerID;constraint:OnDelete:CASCADE" json:"builders,omitempty"`
}

func (BuildServer) TableName() string {
	return "build_servers"
}

func NewBuildServer(address, username, accessToken string) *BuildServer {
	return &BuildServer{
		Address:     address,
		Username:    username,
		AccessToken: accessToken,
	}
}

// Client returns a Jenkins client for the server. It is built on every call
// and never persisted; no request is made until the client is used.
func (s *BuildServer) Client() *gojenkins.Jenkins {
	return s.ClientWith(nil)
}

// ClientWith is Client with a caller supplied HTTP client.
func (s *BuildServer) ClientWith(httpClient *http.Client) *gojenkins.Jenkins {
	return gojenkins.CreateJenkins(httpClient, s.Address, s.Username, s.AccessToken)
}
