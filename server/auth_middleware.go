package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token"
	"github.com/jrsteele09/go-admin-session/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated *users.User
const ContextKeyUser ContextKey = "user"

// RequireAccessToken validates the raw access token in the Authorization header.
// Missing header: 1001. Unknown or malformed token: 1002. Expired: 1003.
func (s *Server) RequireAccessToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get(apimodel.HeaderAuthorization)
		if accessToken == "" {
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeUnauthorized, apimodel.MsgUnauthorized)
			return
		}

		user, err := s.users.GetByAccessToken(accessToken)
		if err != nil {
			if !errors.Is(err, errors.ErrUserNotFound) {
				log.Err(err).Str("path", r.URL.Path).Msg("Access token lookup failed")
			}
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeTokenInvalid, apimodel.MsgTokenInvalid)
			return
		}

		if err := s.tokens.Verify(accessToken, token.KindAccess); err != nil {
			log.Warn().Err(err).Str("user", user.Username).Msg("Stored access token failed verification")
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeTokenInvalid, apimodel.MsgTokenInvalid)
			return
		}

		if s.tokens.IsExpired(user.AccessTokenExpiresAt) {
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeTokenExpired, apimodel.MsgTokenExpired)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the user set by RequireAccessToken.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(ContextKeyUser).(*users.User)
	return u, ok
}
