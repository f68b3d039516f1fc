// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"strings"
)

// EncryptedField is a single text field sealed with AES-256-GCM under the
// per-submission key. Both values are standard base64; Ciphertext carries
// the 16-byte authentication tag appended at the end.
type EncryptedField struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv,omitempty"`
}

// Purpose identifies the domain role of an uploaded file (front of an ID,
// land deed, ...). It is the only link between a stored blob and the
// document slot it fills once decrypted.
type Purpose string

const (
	PurposeFrontID      Purpose = "front_id"
	PurposeBackID       Purpose = "back_id"
	PurposeSelfieWithID Purpose = "selfie_with_id"
	PurposeLandDeed     Purpose = "land_deed"

	// PurposeUnknown is assigned to any label that does not name a known role.
	PurposeUnknown Purpose = "unknown"
)

var knownPurposes = map[string]Purpose{
	string(PurposeFrontID):      PurposeFrontID,
	string(PurposeBackID):       PurposeBackID,
	string(PurposeSelfieWithID): PurposeSelfieWithID,
	string(PurposeLandDeed):     PurposeLandDeed,
}

// ParsePurpose maps a free-form label onto a known Purpose. Matching is
// case-insensitive and tolerates '-' or ' ' as word separators, so
// "Front-ID" and "front_id" are the same purpose.
func ParsePurpose(label string) Purpose {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	if p, ok := knownPurposes[normalized]; ok {
		return p
	}

	return PurposeUnknown
}

// IsKnown reports whether p names a concrete document role.
func (p Purpose) IsKnown() bool {
	_, ok := knownPurposes[string(p)]
	return ok
}

// EncryptedFileDescriptor references one encrypted file in content-addressed
// storage together with everything required to decrypt it.
type EncryptedFileDescriptor struct {
	// CID is the content identifier of the ciphertext blob.
	CID      string `json:"cid"`
	Filename string `json:"filename"`
	Mime     string `json:"mime"`
	// Size is the plaintext size in bytes.
	Size int64 `json:"size"`
	// IV is the base64 nonce the file was sealed with. A descriptor without
	// an IV can never be decrypted.
	IV string `json:"iv"`
	// CiphertextHash is the hex SHA-256 of the stored ciphertext, if known.
	CiphertextHash string `json:"ciphertextHash,omitempty"`
	// ChunkSize is non-zero when the payload was sealed as a chunked stream.
	ChunkSize int     `json:"chunkSize,omitempty"`
	Purpose   Purpose `json:"purpose"`
}

type descriptorLabels struct {
	Tag     string `json:"tag"`
	Purpose string `json:"purpose"`
	Meta    struct {
		Tag     string `json:"tag"`
		Purpose string `json:"purpose"`
	} `json:"meta"`
}

// UnmarshalJSON decodes a descriptor and resolves its purpose from the
// labels older clients used. Candidates are tried in the order tag,
// meta.tag, purpose, meta.purpose and the first known one wins.
func (d *EncryptedFileDescriptor) UnmarshalJSON(data []byte) error {
	type plain EncryptedFileDescriptor
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}

	var labels descriptorLabels
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}

	out.Purpose = PurposeUnknown
	for _, candidate := range []string{labels.Tag, labels.Meta.Tag, labels.Purpose, labels.Meta.Purpose} {
		if p := ParsePurpose(candidate); p != PurposeUnknown {
			out.Purpose = p
			break
		}
	}

	*d = EncryptedFileDescriptor(out)
	return nil
}
