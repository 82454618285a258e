package endpoints

import (
	"net/http"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store"
)

// GroupResponse is a group with its privileges and member count
type GroupResponse struct {
	model.Group
	MemberCount int64 `json:"member_count"`
}

// MembersResponse is one page of a group's members
type MembersResponse struct {
	Members []model.Account `json:"members"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// RegisterGroupsEndpoints registers the group endpoints
func RegisterGroupsEndpoints(s *server.Server) {
	groups := s.GroupsStore
	r := authenticated(s)

	// GET /groups - List all groups
	r.HandleFunc("/groups", handleListGroups(groups)).Methods("GET")

	// GET /groups/{key} - Fetch a group by id or name
	r.HandleFunc("/groups/{key}", handleShowGroup(groups)).Methods("GET")

	// GET /groups/{key}/members - Page over a group's members
	r.HandleFunc("/groups/{key}/members", handleGroupMembers(groups)).Methods("GET")

	// DELETE /groups/{key} - Delete a group (admin)
	r.Handle("/groups/{key}", adminOnly(s, handleDeleteGroup(groups))).Methods("DELETE")
}

func handleListGroups(groups store.GroupsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := groups.ListGroups(r.Context())
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if list == nil {
			list = []model.Group{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleShowGroup(groups store.GroupsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := keyVar(r)

		group, err := groups.FetchGroup(r.Context(), key)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if group == nil {
			respondWithError(w, http.StatusNotFound, "group not found: "+key.String())
			return
		}

		count, err := groups.CountGroupMembers(r.Context(), model.KeyID(group.ID))
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		respondWithJSON(w, http.StatusOK, GroupResponse{Group: *group, MemberCount: count})
	}
}

func handleGroupMembers(groups store.GroupsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", 0)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		offset, err := intQuery(r, "offset", 0)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		key := keyVar(r)
		total, err := groups.CountGroupMembers(r.Context(), key)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		members, err := groups.FetchGroupMembers(r.Context(), key, limit, offset)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if members == nil {
			members = []model.Account{}
		}

		respondWithJSON(w, http.StatusOK, MembersResponse{
			Members: members,
			Total:   total,
			Limit:   limit,
			Offset:  offset,
		})
	}
}

func handleDeleteGroup(groups store.GroupsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := groups.DeleteGroup(r.Context(), keyVar(r)); err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
