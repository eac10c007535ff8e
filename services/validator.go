package services

import (
	"fmt"
	"strings"

	"application-form-api/formdata"
	"application-form-api/models"
	"application-form-api/utils"
)

// FieldError kinds reported by ValidateSubmission.
const (
	ErrMissingField      = "missing_field"
	ErrInvalidFormat     = "invalid_format"
	ErrPartialRow        = "partial_row"
	ErrMissingSelection  = "missing_selection"
	ErrInvalidAttachment = "invalid_attachment"
)

// FieldError describes one validation problem in a submission.
type FieldError struct {
	Kind          string   `json:"kind"`
	Field         string   `json:"field,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	Group         string   `json:"group,omitempty"`
	Row           int      `json:"row,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Message       string   `json:"message"`
}

// PhotoPolicy controls whether a submission must carry a photo.
type PhotoPolicy struct {
	Required bool
}

// requiredScalars lists the mandatory personal fields in report order.
var requiredScalars = []string{
	"fullName", "phone", "email", "position", "dateOfApplication",
	"maritalStatus", "address", "dob", "aadhar",
}

// ValidateSubmission checks a decoded submission against the application
// rules. Every rule is evaluated; the result is the complete ordered list of
// problems, empty when the submission is valid. Empty repeated groups and
// absent singleton groups are legal and produce no errors.
func ValidateSubmission(decoded formdata.Decoded, photo *models.PhotoUpload, policy PhotoPolicy) []FieldError {
	var errs []FieldError

	for _, field := range requiredScalars {
		if decoded.Scalar(field) == "" {
			errs = append(errs, FieldError{
				Kind:    ErrMissingField,
				Field:   field,
				Message: fmt.Sprintf("%s is required", field),
			})
		}
	}

	if phone := decoded.Scalar("phone"); phone != "" && !utils.ValidatePhone(phone) {
		errs = append(errs, FieldError{
			Kind:    ErrInvalidFormat,
			Field:   "phone",
			Pattern: utils.PhonePattern,
			Message: "phone must be exactly 10 digits",
		})
	}
	if email := decoded.Scalar("email"); email != "" && !utils.ValidateEmail(email) {
		errs = append(errs, FieldError{
			Kind:    ErrInvalidFormat,
			Field:   "email",
			Pattern: utils.EmailPattern,
			Message: "email must look like local@domain.tld",
		})
	}
	if aadhar := decoded.Scalar("aadhar"); aadhar != "" && !utils.ValidateAadhar(aadhar) {
		errs = append(errs, FieldError{
			Kind:    ErrInvalidFormat,
			Field:   "aadhar",
			Pattern: utils.AadharPattern,
			Message: "aadhar must be exactly 12 digits",
		})
	}

	if !hasSelection(decoded.Scalars["employmentType"]) {
		errs = append(errs, FieldError{
			Kind:    ErrMissingSelection,
			Field:   "employmentType",
			Message: "select at least one employment type",
		})
	}

	for _, group := range formdata.ApplicationSchema.RowGroups {
		for i, row := range decoded.Rows(group.Prefix) {
			// Fully-empty rows are dropped later by the assembler;
			// they are not an error.
			if len(row.Fields) == 0 {
				continue
			}
			var missing []string
			for _, field := range group.Fields {
				if row.Fields[field] == "" {
					missing = append(missing, field)
				}
			}
			if len(missing) > 0 {
				errs = append(errs, FieldError{
					Kind:          ErrPartialRow,
					Group:         group.Prefix,
					Row:           i,
					MissingFields: missing,
					Message: fmt.Sprintf("%s row %d is incomplete: missing %s",
						group.Prefix, i+1, strings.Join(missing, ", ")),
				})
			}
		}
	}

	errs = append(errs, validatePhoto(photo, policy)...)

	return errs
}

func validatePhoto(photo *models.PhotoUpload, policy PhotoPolicy) []FieldError {
	if photo == nil || photo.Size == 0 {
		if policy.Required {
			return []FieldError{{
				Kind:    ErrInvalidAttachment,
				Field:   "photo",
				Message: "a photo attachment is required",
			}}
		}
		return nil
	}
	if !utils.IsImageMime(photo.MimeType) {
		return []FieldError{{
			Kind:    ErrInvalidAttachment,
			Field:   "photo",
			Message: fmt.Sprintf("photo content type %q is not an image", photo.MimeType),
		}}
	}
	return nil
}

func hasSelection(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
