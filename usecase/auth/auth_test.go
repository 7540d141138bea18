package auth

import (
	"errors"
	"testing"

	"github.com/emagraphy/backend/domain"
)

type mockIssuer struct {
	issueFn func(email, name string) (string, error)
}

func (m *mockIssuer) Issue(email, name string) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(email, name)
	}
	return "signed-token", nil
}

func TestIssueSession(t *testing.T) {
	var gotEmail, gotName string
	uc := New(&mockIssuer{
		issueFn: func(email, name string) (string, error) {
			gotEmail, gotName = email, name
			return "signed-token", nil
		},
	}, nil)

	signed, err := uc.IssueSession(IdentityClaims{Email: "a@x.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if signed != "signed-token" {
		t.Errorf("token = %q, want %q", signed, "signed-token")
	}
	if gotEmail != "a@x.com" || gotName != "Ana" {
		t.Errorf("claims = (%q, %q), want (a@x.com, Ana)", gotEmail, gotName)
	}
}

func TestIssueSession_MissingEmail(t *testing.T) {
	uc := New(&mockIssuer{}, nil)
	if _, err := uc.IssueSession(IdentityClaims{}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("err = %v, want INVALID", err)
	}
}

func TestIssueSession_SignerFailure(t *testing.T) {
	uc := New(&mockIssuer{
		issueFn: func(_, _ string) (string, error) {
			return "", errors.New("hmac failure")
		},
	}, nil)

	if _, err := uc.IssueSession(IdentityClaims{Email: "a@x.com"}); !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Errorf("err = %v, want INTERNAL", err)
	}
}
