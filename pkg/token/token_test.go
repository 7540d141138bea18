package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestIssueVerify_Roundtrip(t *testing.T) {
	svc := New("test-secret", "emagraphy", DefaultTTL)

	signed, err := svc.Issue("a@x.com", "Ana")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Name != "Ana" {
		t.Errorf("name = %q, want %q", claims.Name, "Ana")
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", ttl, DefaultTTL)
	}
}

func TestIssue_MissingEmail(t *testing.T) {
	svc := New("test-secret", "emagraphy", DefaultTTL)
	if _, err := svc.Issue("", ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := New("secret-a", "emagraphy", DefaultTTL)
	verifier := New("secret-b", "emagraphy", DefaultTTL)

	signed, err := issuer.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	svc := New("test-secret", "emagraphy", DefaultTTL)
	if _, err := svc.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := New("test-secret", "emagraphy", DefaultTTL).WithClock(func() time.Time {
		return issuedAt
	})

	signed, err := svc.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"one second before expiry", issuedAt.Add(DefaultTTL - time.Second), nil},
		{"exactly at expiry", issuedAt.Add(DefaultTTL), ErrExpired},
		{"one second past expiry", issuedAt.Add(DefaultTTL + time.Second), ErrExpired},
	}

	defer func() { jwt.TimeFunc = time.Now }()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jwt.TimeFunc = func() time.Time { return tc.now }
			_, err := svc.Verify(signed)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
