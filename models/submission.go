package models

// Submission is the plaintext input of the client pipeline, usually loaded
// from a JSON manifest by the CLI.
type Submission struct {
	// RequestID is generated by the client when empty.
	RequestID   string            `json:"requestId,omitempty"`
	RequestType RequestType       `json:"requestType"`
	Fields      map[string]string `json:"fields"`
	Files       []SubmissionFile  `json:"files"`
}

// SubmissionFile is one local document file to encrypt and upload.
type SubmissionFile struct {
	Path    string `json:"path"`
	Purpose string `json:"purpose"`
	// Mime is detected from the content when empty.
	Mime string `json:"mime,omitempty"`
}

// SubmissionReceipt is what the client gets back once the server accepted
// a submission.
type SubmissionReceipt struct {
	RequestID         string        `json:"requestId"`
	MetadataCID       string        `json:"metadataCid"`
	MetadataHash      string        `json:"metadataHash"`
	UploaderSignature string        `json:"uploaderSignature"`
	Record            RequestRecord `json:"record"`
}
