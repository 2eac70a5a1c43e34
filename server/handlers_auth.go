package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/errors"
)

// LoginHandler exchanges a username and password for a token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params apimodel.LoginParams
		decodeBody(w, r, &params)

		if params.Username == "" || params.Password == "" {
			writeFailure(w, http.StatusBadRequest, apimodel.CodeMissingCredentials, apimodel.MsgMissingCredentials)
			return
		}

		if s.loginLocked(params.Username) {
			writeFailure(w, http.StatusTooManyRequests, apimodel.CodeTooManyAttempts, apimodel.MsgTooManyAttempts)
			return
		}

		user, err := s.users.GetByUsername(params.Username)
		if err != nil && !errors.Is(err, errors.ErrUserNotFound) {
			log.Err(err).Str("username", params.Username).Msg("User lookup failed")
		}
		if err != nil || !user.CheckPassword(params.Password) {
			s.recordFailedLogin(params.Username)
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeInvalidCredentials, apimodel.MsgInvalidCredentials)
			return
		}

		pair, err := s.sessions.Create(user)
		if err != nil {
			log.Err(err).Str("username", user.Username).Msg("Failed to issue tokens")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if s.attempts != nil {
			s.attempts.Reset(user.Username)
		}
		log.Info().Str("username", user.Username).Msg("User logged in")
		writeOK(w, apimodel.MsgLoginOK, pair)
	}
}

// RefreshHandler rotates both tokens of the pair the refresh token belongs to.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params apimodel.RefreshTokenParams
		decodeBody(w, r, &params)

		if params.RefreshToken == "" {
			writeFailure(w, http.StatusBadRequest, apimodel.CodeMissingRefreshToken, apimodel.MsgMissingRefreshToken)
			return
		}

		pair, err := s.sessions.Rotate(params.RefreshToken)
		switch {
		case errors.Is(err, errors.ErrRefreshTokenExpired):
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeRefreshTokenExpired, apimodel.MsgRefreshTokenExpired)
			return
		case errors.Is(err, errors.ErrInvalidRefreshToken):
			writeFailure(w, http.StatusUnauthorized, apimodel.CodeRefreshTokenInvalid, apimodel.MsgRefreshTokenInvalid)
			return
		case err != nil:
			log.Err(err).Msg("Failed to rotate tokens")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		writeOK(w, apimodel.MsgRefreshOK, pair)
	}
}

func (s *Server) loginLocked(username string) bool {
	if s.attempts == nil {
		return false
	}
	return s.attempts.Count(username) >= s.config.GetMaxLoginAttempts()
}

func (s *Server) recordFailedLogin(username string) {
	if s.attempts == nil {
		return
	}
	n, err := s.attempts.Fail(username)
	if err != nil {
		log.Err(err).Msg("Failed to record login attempt")
		return
	}
	log.Warn().Str("username", username).Int("failures", n).Msg("Failed login")
}
