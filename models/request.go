// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RequestType is the kind of document a request verifies.
type RequestType string

const (
	RequestTypeNationalID RequestType = "national_id"
	RequestTypeLandTitle  RequestType = "land_title"
)

// Valid reports whether t is a supported request type.
func (t RequestType) Valid() bool {
	return t == RequestTypeNationalID || t == RequestTypeLandTitle
}

// RequestStatus is the review state of a verification request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// RequestRecord is the persisted pointer to a submission. The envelope it
// references holds the actual (encrypted) evidence.
//
// MetadataCID, MetadataHash, UploaderSignature and Files are always replaced
// together; a record never mixes values from two different envelopes.
type RequestRecord struct {
	RequestID         string                    `json:"requestId"`
	RequesterWallet   string                    `json:"requesterWallet"`
	RequestType       RequestType               `json:"requestType"`
	MetadataCID       string                    `json:"metadataCid"`
	MetadataHash      string                    `json:"metadataHash"`
	UploaderSignature string                    `json:"uploaderSignature"`
	Files             []EncryptedFileDescriptor `json:"files"`
	Status            RequestStatus             `json:"status"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// BlobCIDs returns the envelope CID followed by every file CID of r.
func (r RequestRecord) BlobCIDs() []string {
	cids := make([]string, 0, len(r.Files)+1)
	if r.MetadataCID != "" {
		cids = append(cids, r.MetadataCID)
	}
	for _, f := range r.Files {
		if f.CID != "" {
			cids = append(cids, f.CID)
		}
	}
	return cids
}

// SubmitRequest is the body of both the create and the update endpoints.
// On update RequestID and RequesterWallet are taken from the URL.
type SubmitRequest struct {
	RequestID         string                    `json:"requestId"`
	RequesterWallet   string                    `json:"requesterWallet"`
	RequestType       RequestType               `json:"requestType"`
	MetadataCID       string                    `json:"metadataCid"`
	MetadataHash      string                    `json:"metadataHash"`
	UploaderSignature string                    `json:"uploaderSignature"`
	Files             []EncryptedFileDescriptor `json:"files"`
}

// StatusUpdateRequest is sent by an admin to approve or reject a request.
type StatusUpdateRequest struct {
	Status RequestStatus `json:"status"`
}
