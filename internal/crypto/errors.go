package crypto

import "errors"

var (
	// ErrInvalidKey is returned when a symmetric key is not exactly KeySize bytes.
	ErrInvalidKey = errors.New("invalid symmetric key")
	// ErrMissingIV is returned when there is no IV to decrypt with. Nothing
	// is ever decrypted with a guessed or zero IV.
	ErrMissingIV = errors.New("missing iv")
	// ErrInvalidIV is returned when an IV is not valid base64 of IVSize bytes.
	ErrInvalidIV = errors.New("invalid iv")
	// ErrMalformedCiphertext is returned when ciphertext is not valid base64.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrCiphertextTooShort is returned when ciphertext cannot even hold the
	// authentication tag.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrAuthenticationFailed is returned when the GCM tag does not verify:
	// wrong key, tampered ciphertext or tampered IV.
	ErrAuthenticationFailed = errors.New("message authentication failed")
	// ErrCiphertextHashMismatch is returned when stored ciphertext does not
	// match the hash recorded in its descriptor.
	ErrCiphertextHashMismatch = errors.New("ciphertext hash mismatch")

	// ErrFileTooLarge and ErrUnsupportedFileType are client-side upload guards.
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrPrivateKeyNotConfigured is returned when the server private key is
	// empty. There is no fallback key.
	ErrPrivateKeyNotConfigured = errors.New("server private key is not configured")
	// ErrInvalidPEM is returned when a PEM block cannot be decoded or parsed.
	ErrInvalidPEM = errors.New("invalid PEM key")
	// ErrUnwrapFailed is returned when a wrapped key cannot be recovered.
	ErrUnwrapFailed = errors.New("unwrap symmetric key")
)
