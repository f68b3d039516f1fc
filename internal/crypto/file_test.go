package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/MKhiriev/go-doc-verify/models"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return b
}

func TestEncryptFile_RoundTrip(t *testing.T) {
	key := mustKey(t)

	sizes := []int{0, 1, 4096, StreamChunkSize, StreamChunkSize + 1, 3*StreamChunkSize + 17}
	for _, size := range sizes {
		payload := randomBytes(t, size)

		enc, err := EncryptFile(key, bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("size %d: EncryptFile error: %v", size, err)
		}
		if enc.Size != int64(size) {
			t.Fatalf("size %d: Size = %d", size, enc.Size)
		}

		wantChunked := size > StreamChunkSize
		if (enc.ChunkSize != 0) != wantChunked {
			t.Fatalf("size %d: ChunkSize = %d, chunked want %v", size, enc.ChunkSize, wantChunked)
		}

		d := enc.Descriptor("cid", "scan.png", "image/png", models.PurposeFrontID)
		got, err := DecryptFile(key, enc.Ciphertext, d)
		if err != nil {
			t.Fatalf("size %d: DecryptFile error: %v", size, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestDecryptFile_MissingIV(t *testing.T) {
	key := mustKey(t)
	enc, err := EncryptFile(key, strings.NewReader("image bytes"))
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	d := enc.Descriptor("cid", "a.png", "image/png", models.PurposeBackID)
	d.IV = ""
	if _, err := DecryptFile(key, enc.Ciphertext, d); !errors.Is(err, ErrMissingIV) {
		t.Fatalf("err = %v, want ErrMissingIV", err)
	}
}

func TestDecryptFile_TamperedAndWrongKey(t *testing.T) {
	key := mustKey(t)
	enc, err := EncryptFile(key, bytes.NewReader(randomBytes(t, 2048)))
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}
	d := enc.Descriptor("cid", "a.png", "image/png", models.PurposeFrontID)

	if _, err := DecryptFile(mustKey(t), enc.Ciphertext, d); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("wrong key: err = %v, want ErrAuthenticationFailed", err)
	}

	tampered := bytes.Clone(enc.Ciphertext)
	tampered[10] ^= 0xFF
	if _, err := DecryptFile(key, tampered, d); !errors.Is(err, ErrCiphertextHashMismatch) {
		t.Fatalf("tampered with hash: err = %v, want ErrCiphertextHashMismatch", err)
	}

	d.CiphertextHash = ""
	if _, err := DecryptFile(key, tampered, d); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("tampered without hash: err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecryptFile_ChunkedTruncationDetected(t *testing.T) {
	key := mustKey(t)
	enc, err := EncryptFile(key, bytes.NewReader(randomBytes(t, 2*StreamChunkSize+100)))
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}
	d := enc.Descriptor("cid", "deed.pdf", "application/pdf", models.PurposeLandDeed)
	d.CiphertextHash = ""

	// drop the final chunk: the new last chunk was not sealed as final
	truncated := enc.Ciphertext[:2*(StreamChunkSize+TagSize)]
	if _, err := DecryptFile(key, truncated, d); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}

	// swap the first two chunks
	seg := StreamChunkSize + TagSize
	swapped := bytes.Clone(enc.Ciphertext)
	copy(swapped[:seg], enc.Ciphertext[seg:2*seg])
	copy(swapped[seg:2*seg], enc.Ciphertext[:seg])
	if _, err := DecryptFile(key, swapped, d); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecryptFile_ChunkSizeOutOfRange(t *testing.T) {
	key := mustKey(t)
	enc, err := EncryptFile(key, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	for _, size := range []int{StreamChunkSize + 1, math.MaxInt - 4, math.MaxInt} {
		d := enc.Descriptor("cid", "a.png", "image/png", models.PurposeFrontID)
		d.ChunkSize = size

		if _, err := DecryptFile(key, enc.Ciphertext, d); !errors.Is(err, ErrMalformedCiphertext) {
			t.Fatalf("chunk size %d: err = %v, want ErrMalformedCiphertext", size, err)
		}
	}
}

func TestDecryptFile_ShortCiphertext(t *testing.T) {
	key := mustKey(t)
	enc, _ := EncryptFile(key, strings.NewReader("x"))
	d := enc.Descriptor("cid", "a.png", "image/png", models.PurposeFrontID)
	d.CiphertextHash = ""

	if _, err := DecryptFile(key, enc.Ciphertext[:TagSize-1], d); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("err = %v, want ErrCiphertextTooShort", err)
	}
}

func TestToDataURL(t *testing.T) {
	got := ToDataURL("image/png", []byte("hi"))
	if got != "data:image/png;base64,aGk=" {
		t.Fatalf("ToDataURL = %q", got)
	}

	got = ToDataURL("", []byte{})
	if got != "data:application/octet-stream;base64," {
		t.Fatalf("ToDataURL default mime = %q", got)
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		size int64
		mime string
		want error
	}{
		{"png ok", 100, "image/png", nil},
		{"pdf ok", 100, "application/pdf", nil},
		{"too large", 2 << 20, "image/jpeg", ErrFileTooLarge},
		{"text rejected", 10, "text/plain", ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.size, tt.mime, 1<<20)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectMime(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	if got := DetectMime(png); got != "image/png" {
		t.Fatalf("DetectMime = %q, want image/png", got)
	}
	if got := DetectMime([]byte("plain words")); got != "text/plain" {
		t.Fatalf("DetectMime = %q, want text/plain", got)
	}
}
