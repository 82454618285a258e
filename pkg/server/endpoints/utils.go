package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/middleware"
	"github.com/saltstack/porch/pkg/server/store"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps a store failure to a status code. Anything
// other than ErrNotFound is logged and reported as a 500.
func respondWithStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	log.Log.WithField(log.RequestField, middleware.RequestIDFrom(r.Context())).
		WithField("path", r.URL.Path).
		WithError(err).
		Error("request failed")
	respondWithError(w, http.StatusInternalServerError, "internal error")
}

// keyVar reads the {key} path variable. The router keeps paths encoded so
// that build server addresses may carry escaped slashes.
func keyVar(r *http.Request) model.Key {
	raw := mux.Vars(r)["key"]
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return model.ParseKey(raw)
}

// intQuery reads a non-negative integer query parameter, returning def
// when it is absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return v, nil
}
