package services

import (
	"testing"

	"application-form-api/formdata"
	"application-form-api/models"
)

func decodeRaw(raw *formdata.RawFieldSet) formdata.Decoded {
	return formdata.Decode(raw, formdata.ApplicationSchema)
}

func TestAssembleScalarsAndGroups(t *testing.T) {
	raw := completeSubmission()
	raw.Add("education[0][degree]", "BSc")
	raw.Add("education[0][institute]", "DU")
	raw.Add("education[0][year]", "2019")
	raw.Add("education[0][grade]", "A")
	raw.Add("education[0][city]", "Delhi")
	raw.Add("bank[bankName]", "SBI")
	raw.Add("bank[accountNumber]", "1234567890")

	app := AssembleApplication(decodeRaw(raw), nil)

	if app.FullName != "Asha Verma" || app.Phone != "9876543210" {
		t.Errorf("scalars not carried over: %+v", app)
	}
	if len(app.Education) != 1 || app.Education[0].Degree != "BSc" || app.Education[0].City != "Delhi" {
		t.Errorf("education rows = %+v", app.Education)
	}
	if app.Bank == nil || app.Bank.Data.BankName != "SBI" {
		t.Errorf("bank details = %+v", app.Bank)
	}
	if app.Joining != nil || app.Company != nil {
		t.Error("absent singleton groups must stay nil")
	}
	if app.ApplicationID == "" || app.CreateAt.IsZero() {
		t.Error("identity and creation time must be stamped")
	}
}

func TestAssembleDropsEmptyRows(t *testing.T) {
	raw := completeSubmission()
	raw.Add("skills[0][skill]", "")
	raw.Add("skills[0][level]", "")
	raw.Add("skills[1][skill]", "Go")
	raw.Add("skills[1][level]", "Advanced")
	raw.Add("skills[1][year]", "2022")
	raw.Add("skills[1][institute]", "NIIT")

	app := AssembleApplication(decodeRaw(raw), nil)

	if len(app.Skills) != 1 {
		t.Fatalf("empty row should be dropped, got %+v", app.Skills)
	}
	if app.Skills[0].Skill != "Go" {
		t.Errorf("kept row = %+v", app.Skills[0])
	}
}

func TestAssembleDeduplicatesEmploymentType(t *testing.T) {
	raw := completeSubmission()
	raw.Add("employmentType", "Remote")
	raw.Add("employmentType", "Full-Time") // duplicate of the base selection
	raw.Add("employmentType", "  ")

	app := AssembleApplication(decodeRaw(raw), nil)

	want := models.StringList{"Full-Time", "Remote"}
	if len(app.EmploymentType) != len(want) {
		t.Fatalf("employment type = %v, want %v", app.EmploymentType, want)
	}
	for i := range want {
		if app.EmploymentType[i] != want[i] {
			t.Errorf("employment type = %v, want %v", app.EmploymentType, want)
			break
		}
	}
}

func TestAssemblePhotoMetadata(t *testing.T) {
	photo := &models.PhotoUpload{
		Filename:   "me.png",
		MimeType:   "image/png",
		Size:       4,
		Data:       []byte{1, 2, 3, 4},
		StoredPath: "uploads/123-me.png",
	}

	app := AssembleApplication(decodeRaw(completeSubmission()), photo)

	if app.PhotoPath != "uploads/123-me.png" || app.PhotoMime != "image/png" || app.PhotoSize != 4 {
		t.Errorf("photo metadata = %q %q %d", app.PhotoPath, app.PhotoMime, app.PhotoSize)
	}
	if !app.HasPhoto() {
		t.Error("HasPhoto should be true")
	}

	without := AssembleApplication(decodeRaw(completeSubmission()), nil)
	if without.HasPhoto() {
		t.Error("HasPhoto should be false when no photo was attached")
	}
}

func TestAssembleStampsDistinctIdentities(t *testing.T) {
	decoded := decodeRaw(completeSubmission())

	first := AssembleApplication(decoded, nil)
	second := AssembleApplication(decoded, nil)

	if first.ApplicationID == second.ApplicationID {
		t.Error("two assemblies must get distinct identities")
	}
	if second.CreateAt.Before(first.CreateAt) {
		t.Error("creation timestamps should not go backwards")
	}
}
