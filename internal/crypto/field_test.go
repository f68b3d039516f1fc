package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/MKhiriev/go-doc-verify/models"
)

func mustKey(t *testing.T) SymmetricKey {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}
	return key
}

func TestGenerateKey_LengthAndRandomness(t *testing.T) {
	k1 := mustKey(t)
	k2 := mustKey(t)

	if len(k1) != KeySize {
		t.Fatalf("key length = %d, want %d", len(k1), KeySize)
	}
	if bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to differ, but they are equal")
	}
}

func TestSymmetricKey_ZeroAndString(t *testing.T) {
	key := mustKey(t)
	if key.String() != "[redacted]" {
		t.Fatalf("String() = %q, want redacted", key.String())
	}

	key.Zero()
	if !bytes.Equal(key, make([]byte, KeySize)) {
		t.Fatalf("expected key to be zeroed")
	}
}

func TestEncryptField_RoundTrip(t *testing.T) {
	key := mustKey(t)

	for _, plaintext := range []string{"Jane", "X123", "", "14.5995", "Ñandú ✓ 日本"} {
		field, err := EncryptField(key, plaintext)
		if err != nil {
			t.Fatalf("EncryptField(%q) error: %v", plaintext, err)
		}

		got, err := DecryptField(key, field)
		if err != nil {
			t.Fatalf("DecryptField(%q) error: %v", plaintext, err)
		}
		if got != plaintext {
			t.Fatalf("round trip = %q, want %q", got, plaintext)
		}
	}
}

func TestEncryptField_FreshIVPerCall(t *testing.T) {
	key := mustKey(t)

	f1, err := EncryptField(key, "same")
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}
	f2, err := EncryptField(key, "same")
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}

	if f1.IV == f2.IV {
		t.Fatalf("expected different IVs for two encryptions")
	}
	if f1.Ciphertext == f2.Ciphertext {
		t.Fatalf("expected different ciphertexts for two encryptions")
	}

	ct, _ := base64.StdEncoding.DecodeString(f1.Ciphertext)
	if len(ct) != len("same")+TagSize {
		t.Fatalf("ciphertext length = %d, want plaintext+tag", len(ct))
	}
}

func TestDecryptField_TamperDetection(t *testing.T) {
	key := mustKey(t)
	field, err := EncryptField(key, "X123")
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}

	ct, _ := base64.StdEncoding.DecodeString(field.Ciphertext)
	iv, _ := base64.StdEncoding.DecodeString(field.IV)

	for i := range len(ct) * 8 {
		tampered := bytes.Clone(ct)
		tampered[i/8] ^= 1 << (i % 8)
		_, err := DecryptField(key, models.EncryptedField{
			Ciphertext: base64.StdEncoding.EncodeToString(tampered),
			IV:         field.IV,
		})
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("ciphertext bit %d: err = %v, want ErrAuthenticationFailed", i, err)
		}
	}

	for i := range len(iv) * 8 {
		tampered := bytes.Clone(iv)
		tampered[i/8] ^= 1 << (i % 8)
		_, err := DecryptField(key, models.EncryptedField{
			Ciphertext: field.Ciphertext,
			IV:         base64.StdEncoding.EncodeToString(tampered),
		})
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("iv bit %d: err = %v, want ErrAuthenticationFailed", i, err)
		}
	}
}

func TestDecryptField_WrongKey(t *testing.T) {
	field, err := EncryptField(mustKey(t), "Jane")
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}

	got, err := DecryptField(mustKey(t), field)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
	if got != "" {
		t.Fatalf("expected no plaintext on failure, got %q", got)
	}
}

func TestDecryptField_ShortCiphertext(t *testing.T) {
	key := mustKey(t)
	iv := base64.StdEncoding.EncodeToString(make([]byte, IVSize))

	for _, n := range []int{0, 1, TagSize - 1} {
		_, err := DecryptField(key, models.EncryptedField{
			Ciphertext: base64.StdEncoding.EncodeToString(make([]byte, n)),
			IV:         iv,
		})
		if !errors.Is(err, ErrCiphertextTooShort) {
			t.Fatalf("len %d: err = %v, want ErrCiphertextTooShort", n, err)
		}
	}
}

func TestDecryptField_BadInputs(t *testing.T) {
	key := mustKey(t)
	field, _ := EncryptField(key, "value")

	tests := []struct {
		name  string
		key   SymmetricKey
		field models.EncryptedField
		want  error
	}{
		{"missing iv", key, models.EncryptedField{Ciphertext: field.Ciphertext}, ErrMissingIV},
		{"iv not base64", key, models.EncryptedField{Ciphertext: field.Ciphertext, IV: "%%%"}, ErrInvalidIV},
		{"iv wrong length", key, models.EncryptedField{Ciphertext: field.Ciphertext, IV: base64.StdEncoding.EncodeToString([]byte("short"))}, ErrInvalidIV},
		{"ciphertext not base64", key, models.EncryptedField{Ciphertext: "***", IV: field.IV}, ErrMalformedCiphertext},
		{"key wrong length", SymmetricKey("short"), field, ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecryptField(tt.key, tt.field); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecryptFieldWithFallbackIV(t *testing.T) {
	key := mustKey(t)
	field, _ := EncryptField(key, "legacy")

	legacy := models.EncryptedField{Ciphertext: field.Ciphertext}
	got, err := DecryptFieldWithFallbackIV(key, legacy, field.IV)
	if err != nil {
		t.Fatalf("DecryptFieldWithFallbackIV error: %v", err)
	}
	if got != "legacy" {
		t.Fatalf("got %q, want legacy", got)
	}

	// the field's own IV always wins over the envelope IV
	other := base64.StdEncoding.EncodeToString(make([]byte, IVSize))
	got, err = DecryptFieldWithFallbackIV(key, field, other)
	if err != nil || got != "legacy" {
		t.Fatalf("got %q, %v; want legacy, nil", got, err)
	}
}
