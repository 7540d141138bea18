package auth

import (
	"go.uber.org/zap"

	"github.com/emagraphy/backend/domain"
)

// TokenIssuer mints signed session tokens; the signing primitive itself lives
// in pkg/token.
type TokenIssuer interface {
	Issue(email, name string) (string, error)
}

// IdentityClaims is the client-supplied payload a session is issued for.
// Credential verification is assumed to have happened upstream.
type IdentityClaims struct {
	Email string
	Name  string
}

type UseCase struct {
	tokens TokenIssuer
	logger *zap.Logger
}

func New(tokens TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tokens: tokens,
		logger: logger,
	}
}

// IssueSession signs the supplied identity claims into a session token.
// The only validation here is structural: an email must be present.
func (uc *UseCase) IssueSession(claims IdentityClaims) (string, error) {
	if claims.Email == "" {
		return "", domain.NewError(domain.ErrCodeInvalid, "email is required")
	}

	signed, err := uc.tokens.Issue(claims.Email, claims.Name)
	if err != nil {
		uc.logger.Error("token issuance failed", zap.Error(err))
		return "", domain.WrapError(domain.ErrCodeInternal, "failed to issue session token", err)
	}
	return signed, nil
}
