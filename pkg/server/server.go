package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/buildserver"
	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/server/store"
	gormstore "github.com/saltstack/porch/pkg/server/store/gorm"
)

type Server struct {
	Config *config.PorchConfig
	Router *mux.Router
	DB     *gorm.DB

	AccountsStore     store.AccountsStore
	GroupsStore       store.GroupsStore
	PrivilegesStore   store.PrivilegesStore
	BuildServersStore store.BuildServersStore
	BuildersStore     store.BuildersStore
	HealthStore       store.HealthStore

	Syncer *buildserver.Syncer

	srv *http.Server
}

// NewServer creates a server backed by GORM stores on db.
func NewServer(cfg *config.PorchConfig, db *gorm.DB) *Server {
	builders := gormstore.NewBuildersStore(db)

	s := newServer(cfg)
	s.DB = db
	s.AccountsStore = gormstore.NewAccountsStore(db)
	s.GroupsStore = gormstore.NewGroupsStore(db)
	s.PrivilegesStore = gormstore.NewPrivilegesStore(db)
	s.BuildServersStore = gormstore.NewBuildServersStore(db)
	s.BuildersStore = builders
	s.HealthStore = gormstore.NewHealthStore(db)
	s.Syncer = buildserver.NewSyncer(builders, cfg.JenkinsRequestTimeout())
	return s
}

// NewServerWithStores creates a server over caller supplied stores. The
// DB field is left nil.
func NewServerWithStores(
	cfg *config.PorchConfig,
	accounts store.AccountsStore,
	groups store.GroupsStore,
	privileges store.PrivilegesStore,
	servers store.BuildServersStore,
	builders store.BuildersStore,
	health store.HealthStore,
) *Server {
	s := newServer(cfg)
	s.AccountsStore = accounts
	s.GroupsStore = groups
	s.PrivilegesStore = privileges
	s.BuildServersStore = servers
	s.BuildersStore = builders
	s.HealthStore = health
	s.Syncer = buildserver.NewSyncer(builders, cfg.JenkinsRequestTimeout())
	return s
}

func newServer(cfg *config.PorchConfig) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         cfg.Addr(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config: cfg,
		Router: router,
		srv:    srv,
	}
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
