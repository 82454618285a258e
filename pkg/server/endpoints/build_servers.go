package endpoints

import (
	"net/http"

	"github.com/saltstack/porch/pkg/buildserver"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store"
)

// RegisterBuildServersEndpoints registers the build server endpoints
func RegisterBuildServersEndpoints(s *server.Server) {
	servers := s.BuildServersStore
	r := authenticated(s)

	// GET /servers - List all build servers
	r.HandleFunc("/servers", handleListBuildServers(servers)).Methods("GET")

	// GET /servers/{key} - Fetch a build server by id or address
	r.HandleFunc("/servers/{key}", handleShowBuildServer(servers)).Methods("GET")

	// GET /servers/{key}/builders - List a server's builders
	r.HandleFunc("/servers/{key}/builders", handleListBuilders(servers)).Methods("GET")

	// DELETE /servers/{key} - Delete a build server and its builders (admin)
	r.Handle("/servers/{key}", adminOnly(s, handleDeleteBuildServer(servers))).Methods("DELETE")

	// POST /servers/{key}/sync - Refresh builders from Jenkins (admin)
	r.Handle("/servers/{key}/sync", adminOnly(s, handleSyncBuildServer(servers, s.Syncer))).Methods("POST")
}

func handleListBuildServers(servers store.BuildServersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := servers.ListBuildServers(r.Context())
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if list == nil {
			list = []model.BuildServer{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

// fetchBuildServer writes a response and returns nil when the server in the
// path can't be loaded.
func fetchBuildServer(w http.ResponseWriter, r *http.Request, servers store.BuildServersStore) *model.BuildServer {
	key := keyVar(r)

	buildServer, err := servers.FetchBuildServer(r.Context(), key)
	if err != nil {
		respondWithStoreError(w, r, err)
		return nil
	}
	if buildServer == nil {
		respondWithError(w, http.StatusNotFound, "build server not found: "+key.String())
		return nil
	}
	return buildServer
}

func handleShowBuildServer(servers store.BuildServersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if buildServer := fetchBuildServer(w, r, servers); buildServer != nil {
			respondWithJSON(w, http.StatusOK, buildServer)
		}
	}
}

func handleListBuilders(servers store.BuildServersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeRemoved, err := boolQuery(r, "include_removed")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		buildServer := fetchBuildServer(w, r, servers)
		if buildServer == nil {
			return
		}

		builders, err := servers.FetchBuilders(r.Context(), buildServer.ID, includeRemoved)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if builders == nil {
			builders = []model.Builder{}
		}
		respondWithJSON(w, http.StatusOK, builders)
	}
}

func handleDeleteBuildServer(servers store.BuildServersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := servers.DeleteBuildServer(r.Context(), keyVar(r)); err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSyncBuildServer(servers store.BuildServersStore, syncer *buildserver.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buildServer := fetchBuildServer(w, r, servers)
		if buildServer == nil {
			return
		}

		result, err := syncer.Sync(r.Context(), buildServer)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}
