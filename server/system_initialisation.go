package server

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/users"
)

// InitialiseSystem seeds the demo accounts when the user database is empty and
// prints how to reach the API.
func (s *Server) InitialiseSystem() error {
	existing, err := s.users.List()
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to list users: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("users", len(existing)).Msg("[Server InitialiseSystem] User database already populated")
		return nil
	}

	if err := users.SeedRepo(s.users); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to seed users: %w", err)
	}

	seeded, err := s.users.List()
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to list users: %w", err)
	}

	log.Info().Msg("📋 System Configuration:")
	log.Info().Msgf("   API prefix:   %s", s.prefix)
	log.Info().Msgf("   Token format: %s", s.tokens.Format())
	log.Info().Msg("👤 Seeded accounts:")
	for _, u := range seeded {
		log.Info().Msgf("   %-12s password: %s   permissions: %d", u.Username, users.DefaultPassword, len(u.Permissions))
	}
	return nil
}
