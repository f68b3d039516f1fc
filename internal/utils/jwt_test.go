package utils

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-doc-verify/models"
)

func sessionParams() JWTParams {
	return JWTParams{
		Issuer:   "test-issuer",
		Subject:  "0xabc",
		Kind:     models.TokenKindSession,
		ID:       "nonce-1",
		Duration: time.Hour,
		SignKey:  "secret-key",
	}
}

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken(sessionParams())

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}
	if token.Wallet() != "0xabc" {
		t.Errorf("expected subject '0xabc', got %s", token.Wallet())
	}
	if token.Claims.ID != "nonce-1" {
		t.Errorf("expected jti 'nonce-1', got %s", token.Claims.ID)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	cases := map[string]func(p *JWTParams){
		"empty issuer":  func(p *JWTParams) { p.Issuer = "" },
		"empty subject": func(p *JWTParams) { p.Subject = "" },
		"empty kind":    func(p *JWTParams) { p.Kind = "" },
		"zero duration": func(p *JWTParams) { p.Duration = 0 },
		"empty key":     func(p *JWTParams) { p.SignKey = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := sessionParams()
			mutate(&p)
			if _, err := GenerateJWTToken(p); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issued, err := GenerateJWTToken(sessionParams())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ValidateAndParseJWTToken(issued.SignedString, "secret-key", "test-issuer", models.TokenKindSession)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.Wallet() != "0xabc" {
		t.Errorf("expected wallet '0xabc', got %s", parsed.Wallet())
	}
}

func TestValidateAndParseJWTToken_Rejections(t *testing.T) {
	issued, err := GenerateJWTToken(sessionParams())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	expiredParams := sessionParams()
	expiredParams.Duration = time.Nanosecond
	expired, err := GenerateJWTToken(expiredParams)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(time.Second)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
		kind   string
	}{
		{"wrong key", issued.SignedString, "other", "test-issuer", models.TokenKindSession},
		{"wrong issuer", issued.SignedString, "secret-key", "other", models.TokenKindSession},
		{"wrong kind", issued.SignedString, "secret-key", "test-issuer", models.TokenKindChallenge},
		{"expired", expired.SignedString, "secret-key", "test-issuer", models.TokenKindSession},
		{"garbage", "not.a.token", "secret-key", "test-issuer", models.TokenKindSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateAndParseJWTToken(tt.token, tt.key, tt.issuer, tt.kind); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParseBearerToken(t *testing.T) {
	if got, err := ParseBearerToken("Bearer abc.def"); err != nil || got != "abc.def" {
		t.Errorf("expected abc.def, got %q (%v)", got, err)
	}
	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		if _, err := ParseBearerToken(header); err == nil {
			t.Errorf("expected error for %q", header)
		}
	}
}
