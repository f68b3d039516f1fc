package models

// DecryptMetadataRequest asks the server for the decrypted view of an
// envelope. OwnerAddress must match the wallet of the caller's session.
type DecryptMetadataRequest struct {
	MetadataCID  string `json:"metadataCid"`
	OwnerAddress string `json:"ownerAddress"`
}

// DecryptedFile is the viewer-facing result for one file descriptor.
// DecryptedURL is nil and DecryptError true when the file could not be
// fetched or authenticated.
type DecryptedFile struct {
	File         EncryptedFileDescriptor `json:"file"`
	DecryptedURL *string                 `json:"decryptedUrl"`
	DecryptError bool                    `json:"decryptError"`
}

// NationalIDData is the national ID document reassembled from decrypted
// fields and purpose-tagged files. Missing or undecryptable values are nil.
type NationalIDData struct {
	FirstName    *string `json:"firstName"`
	MiddleName   *string `json:"middleName"`
	LastName     *string `json:"lastName"`
	DateOfBirth  *string `json:"dateOfBirth"`
	IDNumber     *string `json:"idNumber"`
	Address      *string `json:"address"`
	FrontPicture *string `json:"frontPicture"`
	BackPicture  *string `json:"backPicture"`
	SelfieWithID *string `json:"selfieWithId"`
}

// LandTitleData is the land title document reassembled from decrypted
// fields and purpose-tagged files.
type LandTitleData struct {
	OwnerName   *string `json:"ownerName"`
	TitleNumber *string `json:"titleNumber"`
	LotNumber   *string `json:"lotNumber"`
	Area        *string `json:"area"`
	Location    *string `json:"location"`
	Latitude    *string `json:"latitude"`
	Longitude   *string `json:"longitude"`
	LandDeed    *string `json:"landDeed"`
}

// DecryptedView is the response of the decrypt-metadata operation.
//
// Metadata never carries the wrapped key. KeyAvailable is false when the key
// could not be unwrapped, in which case every decrypted value is nil but the
// envelope structure and file references are still returned.
type DecryptedView struct {
	MetadataCID     string             `json:"metadataCid"`
	Metadata        Envelope           `json:"metadata"`
	KeyAvailable    bool               `json:"keyAvailable"`
	DecryptedFields map[string]*string `json:"decryptedFields"`
	Files           []DecryptedFile    `json:"files"`
	NationalIDData  *NationalIDData    `json:"nationalIdData,omitempty"`
	LandTitleData   *LandTitleData     `json:"landTitleData,omitempty"`
}
