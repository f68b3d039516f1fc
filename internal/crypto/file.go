package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chunk "github.com/ipfs/boxo/chunker"

	"github.com/MKhiriev/go-doc-verify/models"
)

// StreamChunkSize is the plaintext chunk size used for files that do not
// fit in a single chunk.
const StreamChunkSize = 1 << 20

const (
	chunkNotFinal byte = 0
	chunkFinal    byte = 1
)

// EncryptedFile is the output of EncryptFile: the ciphertext to pin and the
// parameters a descriptor needs to decrypt it later.
type EncryptedFile struct {
	Ciphertext     []byte
	IV             string
	ChunkSize      int
	Size           int64
	CiphertextHash string
}

// Descriptor builds the descriptor for f once its ciphertext is pinned.
func (f EncryptedFile) Descriptor(cid, filename, mime string, purpose models.Purpose) models.EncryptedFileDescriptor {
	return models.EncryptedFileDescriptor{
		CID:            cid,
		Filename:       filename,
		Mime:           mime,
		Size:           f.Size,
		IV:             f.IV,
		CiphertextHash: f.CiphertextHash,
		ChunkSize:      f.ChunkSize,
		Purpose:        purpose,
	}
}

// EncryptFile seals everything read from r under key with a fresh IV.
//
// Payloads up to StreamChunkSize are sealed in one piece. Larger payloads
// are sealed chunk by chunk: chunk i uses the IV with i XORed into its last
// four bytes, and its additional data marks whether it is the final chunk,
// so dropped, reordered or truncated chunks fail authentication.
func EncryptFile(key SymmetricKey, r io.Reader) (EncryptedFile, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return EncryptedFile{}, err
	}
	iv, err := newIV()
	if err != nil {
		return EncryptedFile{}, err
	}

	splitter := chunk.NewSizeSplitter(r, StreamChunkSize)

	current, err := nextChunk(splitter)
	if err != nil {
		return EncryptedFile{}, err
	}
	next, err := nextChunk(splitter)
	if err != nil {
		return EncryptedFile{}, err
	}

	out := EncryptedFile{IV: base64.StdEncoding.EncodeToString(iv)}

	if next == nil {
		out.Size = int64(len(current))
		out.Ciphertext = gcm.Seal(nil, iv, current, nil)
		out.CiphertextHash = hashCiphertext(out.Ciphertext)
		return out, nil
	}

	out.ChunkSize = StreamChunkSize
	var counter uint32
	for current != nil {
		flag := chunkNotFinal
		if next == nil {
			flag = chunkFinal
		}

		out.Size += int64(len(current))
		out.Ciphertext = gcm.Seal(out.Ciphertext, chunkNonce(iv, counter), current, []byte{flag})
		counter++

		current = next
		if current != nil {
			if next, err = nextChunk(splitter); err != nil {
				return EncryptedFile{}, err
			}
		}
	}

	out.CiphertextHash = hashCiphertext(out.Ciphertext)
	return out, nil
}

// DecryptFile opens ciphertext produced by EncryptFile using the parameters
// recorded in its descriptor. A descriptor without an IV is rejected.
func DecryptFile(key SymmetricKey, ciphertext []byte, d models.EncryptedFileDescriptor) ([]byte, error) {
	iv, err := decodeIV(d.IV)
	if err != nil {
		return nil, err
	}

	if d.CiphertextHash != "" && !strings.EqualFold(d.CiphertextHash, hashCiphertext(ciphertext)) {
		return nil, ErrCiphertextHashMismatch
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if d.ChunkSize <= 0 {
		if len(ciphertext) < TagSize {
			return nil, ErrCiphertextTooShort
		}
		plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
		if err != nil {
			return nil, ErrAuthenticationFailed
		}
		return plaintext, nil
	}

	if d.ChunkSize > StreamChunkSize {
		return nil, fmt.Errorf("%w: chunk size %d exceeds %d", ErrMalformedCiphertext, d.ChunkSize, StreamChunkSize)
	}
	if len(ciphertext) < TagSize {
		return nil, ErrCiphertextTooShort
	}

	segment := d.ChunkSize + TagSize
	plaintext := make([]byte, 0, len(ciphertext))
	var counter uint32
	for offset := 0; offset < len(ciphertext); offset += segment {
		end := min(offset+segment, len(ciphertext))
		sealed := ciphertext[offset:end]
		if len(sealed) < TagSize {
			return nil, ErrCiphertextTooShort
		}

		flag := chunkNotFinal
		if end == len(ciphertext) {
			flag = chunkFinal
		}

		plaintext, err = gcm.Open(plaintext, chunkNonce(iv, counter), sealed, []byte{flag})
		if err != nil {
			return nil, ErrAuthenticationFailed
		}
		counter++
	}

	return plaintext, nil
}

// ToDataURL renders plaintext as an inline data URL viewers can open
// directly.
func ToDataURL(mime string, plaintext []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(plaintext)
}

// DetectMime sniffs the content type of data, ignoring any parameters.
func DetectMime(data []byte) string {
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.TrimSpace(mime)
}

// ValidateUpload is the client-side guard for document files: images and
// PDFs up to maxSize bytes. The server never relies on it.
func ValidateUpload(size int64, mime string, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, maxSize)
	}
	if !strings.HasPrefix(mime, "image/") && mime != "application/pdf" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime)
	}
	return nil
}

// nextChunk returns nil at the end of the stream.
func nextChunk(splitter chunk.Splitter) ([]byte, error) {
	data, err := splitter.NextBytes()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read file chunk: %w", err)
	}
	return data, nil
}

func chunkNonce(iv []byte, counter uint32) []byte {
	nonce := bytes.Clone(iv)
	tail := binary.BigEndian.Uint32(nonce[IVSize-4:]) ^ counter
	binary.BigEndian.PutUint32(nonce[IVSize-4:], tail)
	return nonce
}

func hashCiphertext(ciphertext []byte) string {
	sum := sha256.Sum256(ciphertext)
	return hex.EncodeToString(sum[:])
}
