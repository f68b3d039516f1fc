package models

import "time"

// Envelope is the metadata blob pinned for every submission. Its CID is the
// durable reference to a request and its canonical hash is what the
// submitter's wallet signs.
//
// Envelopes are immutable once pinned: any change produces a new envelope
// with a new CID.
type Envelope struct {
	RequestType RequestType `json:"requestType"`

	// Uploader is the 0x-prefixed wallet address of the submitter.
	Uploader string `json:"uploader"`

	// EncryptedFields maps a field name (firstName, idNumber, latitude, ...)
	// to its ciphertext.
	EncryptedFields map[string]EncryptedField `json:"encryptedFields"`

	Files []EncryptedFileDescriptor `json:"files"`

	// EncryptedAESKeyForServer is the per-submission key wrapped with the
	// server's RSA public key. It is removed from every decrypted view.
	EncryptedAESKeyForServer string `json:"encryptedAesKeyForServer,omitempty"`

	// IV is an envelope-wide nonce written by legacy clients. It is only read
	// as a fallback for fields that carry no IV of their own.
	IV string `json:"iv,omitempty"`

	Status    RequestStatus `json:"status,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// WithoutKeyMaterial returns a copy of e that is safe to hand to a viewer.
func (e Envelope) WithoutKeyMaterial() Envelope {
	e.EncryptedAESKeyForServer = ""
	return e
}

// CIDs returns the file CIDs referenced by the envelope in descriptor order.
func (e Envelope) CIDs() []string {
	cids := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		cids = append(cids, f.CID)
	}
	return cids
}
