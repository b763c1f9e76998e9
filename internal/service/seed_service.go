package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "househunt/internal/errors"
)

// SeedAccount is one demo account of a seed file.
type SeedAccount struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Created int
	Skipped int
}

// SeedAccounts registers every account through auth. Accounts the API
// refuses, usually because they already exist, are skipped; a transport or
// unexpected failure stops the run.
func SeedAccounts(ctx context.Context, auth AuthService, accounts []SeedAccount, logger *slog.Logger) (SeedResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res SeedResult
	for _, a := range accounts {
		_, err := auth.Register(ctx, RegisterInput{
			Name:     a.Name,
			Email:    a.Email,
			Password: a.Password,
			Type:     a.Type,
		})
		switch apperrors.KindOf(err) {
		case apperrors.KindInternal:
			if err != nil {
				return res, fmt.Errorf("register %s: %w", a.Email, err)
			}
			logger.Info("account created", "email", a.Email, "type", a.Type)
			res.Created++
		case apperrors.KindValidation, apperrors.KindBusiness:
			logger.Warn("account skipped", "email", a.Email, "reason", apperrors.UserMessage(err, err.Error()))
			res.Skipped++
		default:
			return res, fmt.Errorf("register %s: %w", a.Email, err)
		}
	}
	return res, nil
}
