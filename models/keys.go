package models

// KeyAlgorithmRSAOAEP256 names the key-wrapping scheme clients must use with
// the published server key.
const KeyAlgorithmRSAOAEP256 = "RSA-OAEP-256"

// ServerPublicKey is the public half of the server's key-wrapping key.
type ServerPublicKey struct {
	PublicKey string `json:"publicKey"`
	Algorithm string `json:"algorithm"`
}
