package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
)

const contentTypeJSON = "application/json; charset=utf-8"

// writeEnvelope writes {code,msg,data} with the given HTTP status.
func writeEnvelope(w http.ResponseWriter, statusCode int, code apimodel.Code, msg string, data any) {
	env, err := apimodel.NewEnvelope(code, msg, data)
	if err != nil {
		log.Err(err).Int("code", int(code)).Msg("Failed to encode response payload")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(env)
}

func writeOK(w http.ResponseWriter, msg string, data any) {
	writeEnvelope(w, http.StatusOK, apimodel.CodeOK, msg, data)
}

func writeFailure(w http.ResponseWriter, statusCode int, code apimodel.Code, msg string) {
	writeEnvelope(w, statusCode, code, msg, nil)
}

// decodeBody reads a JSON body into v. An empty or malformed body leaves v at
// its zero value so the handler reports the missing-field code.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Ignoring unreadable request body")
	}
}
