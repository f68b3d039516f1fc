package service

import (
	"strings"

	"github.com/MKhiriev/go-doc-verify/models"
)

// mapDocument fills the domain-shaped view of the request type from the
// decrypted fields and files. Field names match case-insensitively; a file
// fills the slot of its purpose when it decrypted successfully, and the
// first such file wins.
func mapDocument(view *models.DecryptedView, requestType models.RequestType) {
	fields := lowerKeys(view.DecryptedFields)
	files := filesByPurpose(view.Files)

	switch requestType {
	case models.RequestTypeNationalID:
		view.NationalIDData = &models.NationalIDData{
			FirstName:    fields["firstname"],
			MiddleName:   fields["middlename"],
			LastName:     fields["lastname"],
			DateOfBirth:  fields["dateofbirth"],
			IDNumber:     fields["idnumber"],
			Address:      fields["address"],
			FrontPicture: files[models.PurposeFrontID],
			BackPicture:  files[models.PurposeBackID],
			SelfieWithID: files[models.PurposeSelfieWithID],
		}
	case models.RequestTypeLandTitle:
		view.LandTitleData = &models.LandTitleData{
			OwnerName:   fields["ownername"],
			TitleNumber: fields["titlenumber"],
			LotNumber:   fields["lotnumber"],
			Area:        fields["area"],
			Location:    fields["location"],
			Latitude:    fields["latitude"],
			Longitude:   fields["longitude"],
			LandDeed:    files[models.PurposeLandDeed],
		}
	}
}

// lowerKeys folds field names to lower case without separators, so
// "firstName", "first_name" and "FirstName" land on the same key.
func lowerKeys(fields map[string]*string) map[string]*string {
	out := make(map[string]*string, len(fields))
	for name, value := range fields {
		key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(name))
		if existing, ok := out[key]; ok && existing != nil {
			continue
		}
		out[key] = value
	}
	return out
}

func filesByPurpose(files []models.DecryptedFile) map[models.Purpose]*string {
	out := make(map[models.Purpose]*string)
	for _, f := range files {
		if !f.File.Purpose.IsKnown() || f.DecryptedURL == nil {
			continue
		}
		if _, ok := out[f.File.Purpose]; !ok {
			out[f.File.Purpose] = f.DecryptedURL
		}
	}
	return out
}
