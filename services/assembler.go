package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"application-form-api/formdata"
	"application-form-api/models"
)

// AssembleApplication builds the canonical Application record from a
// validated submission. Fully-empty rows are dropped from every repeated
// group, employment types are deduplicated preserving selection order, and
// the record is stamped with a fresh identity and creation time. The record
// is immutable after this point.
func AssembleApplication(decoded formdata.Decoded, photo *models.PhotoUpload) *models.Application {
	app := &models.Application{
		ApplicationID:  uuid.NewString(),
		FullName:       decoded.Scalar("fullName"),
		Phone:          decoded.Scalar("phone"),
		Email:          decoded.Scalar("email"),
		Position:       decoded.Scalar("position"),
		ApplicationOn:  decoded.Scalar("dateOfApplication"),
		EmploymentType: dedupe(decoded.Scalars["employmentType"]),
		MaritalStatus:  decoded.Scalar("maritalStatus"),
		Address:        decoded.Scalar("address"),
		DOB:            decoded.Scalar("dob"),
		Aadhar:         decoded.Scalar("aadhar"),
		CreateAt:       time.Now(),
	}

	for _, row := range filledRows(decoded.Rows("education")) {
		app.Education = append(app.Education, models.EducationRow{
			Degree:    row.Fields["degree"],
			Institute: row.Fields["institute"],
			Year:      row.Fields["year"],
			Grade:     row.Fields["grade"],
			City:      row.Fields["city"],
		})
	}
	for _, row := range filledRows(decoded.Rows("employment")) {
		app.Employment = append(app.Employment, models.EmploymentRow{
			Company:  row.Fields["company"],
			Position: row.Fields["position"],
			Year:     row.Fields["year"],
			Reason:   row.Fields["reason"],
		})
	}
	for _, row := range filledRows(decoded.Rows("skills")) {
		app.Skills = append(app.Skills, models.SkillRow{
			Skill:     row.Fields["skill"],
			Level:     row.Fields["level"],
			Year:      row.Fields["year"],
			Institute: row.Fields["institute"],
		})
	}
	for _, row := range filledRows(decoded.Rows("family")) {
		app.Family = append(app.Family, models.FamilyRow{
			Name:       row.Fields["name"],
			Relation:   row.Fields["relation"],
			Occupation: row.Fields["occupation"],
		})
	}
	for _, row := range filledRows(decoded.Rows("emergency")) {
		app.Emergency = append(app.Emergency, models.EmergencyRow{
			Name:          row.Fields["name"],
			Relationship:  row.Fields["relationship"],
			Occupation:    row.Fields["occupation"],
			Qualification: row.Fields["qualification"],
			City:          row.Fields["city"],
		})
	}

	if bank := decoded.Singleton("bank"); len(bank) > 0 {
		app.Bank = &models.JSONObject[models.BankDetails]{Data: models.BankDetails{
			BankName:      bank["bankName"],
			AccountHolder: bank["accountHolder"],
			AccountNumber: bank["accountNumber"],
			IFSC:          bank["ifsc"],
			Branch:        bank["branch"],
		}}
	}
	if joining := decoded.Singleton("joining"); len(joining) > 0 {
		app.Joining = &models.JSONObject[models.JoiningDetails]{Data: models.JoiningDetails{
			JoiningDate:       joining["joiningDate"],
			Fees:              joining["fees"],
			FirstInstallment:  joining["firstInstallment"],
			SecondInstallment: joining["secondInstallment"],
			ThirdInstallment:  joining["thirdInstallment"],
			NoticePeriod:      joining["noticePeriod"],
		}}
	}
	if company := decoded.Singleton("company"); len(company) > 0 {
		app.Company = &models.JSONObject[models.CompanyDetails]{Data: models.CompanyDetails{
			Name:              company["name"],
			Address:           company["address"],
			Contact:           company["contact"],
			ReceiverSignature: company["receiverSignature"],
			HRSignature:       company["hrSignature"],
		}}
	}

	if photo != nil && photo.Size > 0 {
		app.PhotoPath = photo.StoredPath
		app.PhotoMime = photo.MimeType
		app.PhotoSize = photo.Size
		app.PhotoData = photo.Data
	}

	return app
}

// filledRows drops rows whose every field is empty. Validation has already
// rejected partially-filled rows, so what remains is complete.
func filledRows(rows []formdata.Row) []formdata.Row {
	kept := rows[:0:0]
	for _, row := range rows {
		if len(row.Fields) > 0 {
			kept = append(kept, row)
		}
	}
	return kept
}

// dedupe returns the non-empty trimmed values with duplicates removed,
// preserving first-selection order.
func dedupe(values []string) models.StringList {
	seen := make(map[string]bool, len(values))
	var out models.StringList
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}
