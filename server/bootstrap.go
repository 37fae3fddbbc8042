package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/tenants"
	"github.com/jrsteele09/go-viewer-session/users"
)

// InitialiseSystem creates the seed hospital and seed account when missing.
// Returns the generated password on first creation (empty string if one was
// configured or the account already exists).
func (s *Server) InitialiseSystem(ctx context.Context) (generatedPassword string, err error) {
	log.Info().Msg("Bootstrap: Checking system configuration...")

	hospital, err := s.initialiseHospital(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to bootstrap hospital: %w", err)
	}

	generatedPassword, err = s.bootstrapSeedAccount(ctx, hospital)
	if err != nil {
		return "", fmt.Errorf("failed to bootstrap seed account: %w", err)
	}

	if generatedPassword != "" {
		log.Info().Msg("Bootstrap complete: System initialized")
		log.Info().Str("email", s.config.GetSeedEmail()).Str("password", generatedPassword).Msg("Seed account credentials, SAVE THIS PASSWORD")
	}
	log.Info().Str("hospital", hospital.Label.String()).Str("viewer", s.config.GetViewerBaseURL()).Msg("Bootstrap: System configured")
	return generatedPassword, nil
}

func (s *Server) initialiseHospital(ctx context.Context) (*tenants.Tenant, error) {
	label, err := tenants.ParseLabel(s.config.GetSeedHospital())
	if err != nil {
		return nil, err
	}
	existing, err := s.repos.Tenants.Get(label)
	if err == nil {
		log.Debug().Str("hospital", label.String()).Msg("Hospital already exists")
		return existing, nil
	}
	if !errors.Is(err, tenants.ErrTenantNotFound) {
		return nil, fmt.Errorf("failed to look up hospital: %w", err)
	}

	hospital := &tenants.Tenant{Label: label, Name: label.String()}
	if err := s.repos.Tenants.Upsert(hospital); err != nil {
		return nil, fmt.Errorf("failed to create hospital: %w", err)
	}
	log.Info().Str("hospital", label.String()).Msg("Created hospital")
	return hospital, nil
}

func (s *Server) bootstrapSeedAccount(ctx context.Context, hospital *tenants.Tenant) (generatedPassword string, err error) {
	email := s.config.GetSeedEmail()
	if _, err := s.repos.Users.GetByEmail(email); err == nil {
		log.Debug().Str("email", email).Msg("Seed account already exists")
		return "", nil
	} else if !errors.Is(err, users.ErrAccountNotFound) {
		return "", fmt.Errorf("failed to check for existing account: %w", err)
	}

	password := s.config.GetSeedPassword()
	if password == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &users.Account{
		Email:        email,
		FirstName:    "Admin",
		LastName:     "User",
		HospitalName: hospital.Label.String(),
		PasswordHash: passwordHash,
	}
	if err := s.repos.Users.Upsert(account); err != nil {
		return "", fmt.Errorf("failed to create seed account: %w", err)
	}
	log.Info().Str("email", account.Email).Str("id", account.ID.String()).Msg("Created seed account")
	return generatedPassword, nil
}
