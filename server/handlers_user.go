package server

import (
	"net/http"

	"github.com/jrsteele09/go-admin-session/apimodel"
)

// UserInfoHandler returns the caller's profile. Runs behind RequireAccessToken.
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeUnauthorized, apimodel.MsgUnauthorized)
			return
		}
		writeOK(w, apimodel.MsgUserInfoOK, user.Info())
	}
}
