package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EducationRow is one entry in the educational background group.
type EducationRow struct {
	Degree    string `json:"degree,omitempty"`
	Institute string `json:"institute,omitempty"`
	Year      string `json:"year,omitempty"`
	Grade     string `json:"grade,omitempty"`
	City      string `json:"city,omitempty"`
}

// EmploymentRow is one entry in the employment history group.
type EmploymentRow struct {
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
	Year     string `json:"year,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// SkillRow is one entry in the skills & training group.
type SkillRow struct {
	Skill     string `json:"skill,omitempty"`
	Level     string `json:"level,omitempty"`
	Year      string `json:"year,omitempty"`
	Institute string `json:"institute,omitempty"`
}

// FamilyRow is one entry in the family details group.
type FamilyRow struct {
	Name       string `json:"name,omitempty"`
	Relation   string `json:"relation,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

// EmergencyRow is one entry in the emergency contacts group.
type EmergencyRow struct {
	Name          string `json:"name,omitempty"`
	Relationship  string `json:"relationship,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	City          string `json:"city,omitempty"`
}

// BankDetails holds the applicant's bank account information.
type BankDetails struct {
	BankName      string `json:"bankName,omitempty"`
	AccountHolder string `json:"accountHolder,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// JoiningDetails holds the offer and installment information.
type JoiningDetails struct {
	JoiningDate       string `json:"joiningDate,omitempty"`
	Fees              string `json:"fees,omitempty"`
	FirstInstallment  string `json:"firstInstallment,omitempty"`
	SecondInstallment string `json:"secondInstallment,omitempty"`
	ThirdInstallment  string `json:"thirdInstallment,omitempty"`
	NoticePeriod      string `json:"noticePeriod,omitempty"`
}

// CompanyDetails holds the receiving company's information.
type CompanyDetails struct {
	Name              string `json:"name,omitempty"`
	Address           string `json:"address,omitempty"`
	Contact           string `json:"contact,omitempty"`
	ReceiverSignature string `json:"receiverSignature,omitempty"`
	HRSignature       string `json:"hrSignature,omitempty"`
}

// PhotoUpload carries an applicant photo through validation and assembly.
// Data is the raw file content; StoredPath is set once the file has been
// written under the upload directory.
type PhotoUpload struct {
	Filename   string
	MimeType   string
	Size       int64
	Data       []byte
	StoredPath string
}

// Application is the canonical, archived record of one submission. It is
// assembled once, inserted once and never updated.
type Application struct {
	ApplicationID  string     `gorm:"primaryKey;column:application_id" json:"application_id"`
	FullName       string     `gorm:"column:full_name" json:"full_name"`
	Phone          string     `gorm:"column:phone" json:"phone"`
	Email          string     `gorm:"column:email" json:"email"`
	Position       string     `gorm:"column:position" json:"position"`
	ApplicationOn  string     `gorm:"column:date_of_application" json:"date_of_application"`
	EmploymentType StringList `gorm:"column:employment_type;type:text" json:"employment_type"`
	MaritalStatus  string     `gorm:"column:marital_status" json:"marital_status"`
	Address        string     `gorm:"column:address" json:"address"`
	DOB            string     `gorm:"column:dob" json:"dob"`
	Aadhar         string     `gorm:"column:aadhar" json:"aadhar"`

	Education  JSONRows[EducationRow]  `gorm:"column:education;type:text" json:"education"`
	Employment JSONRows[EmploymentRow] `gorm:"column:employment;type:text" json:"employment"`
	Skills     JSONRows[SkillRow]      `gorm:"column:skills;type:text" json:"skills"`
	Family     JSONRows[FamilyRow]     `gorm:"column:family;type:text" json:"family"`
	Emergency  JSONRows[EmergencyRow]  `gorm:"column:emergency;type:text" json:"emergency"`

	Bank    *JSONObject[BankDetails]    `gorm:"column:bank;type:text" json:"bank,omitempty"`
	Joining *JSONObject[JoiningDetails] `gorm:"column:joining;type:text" json:"joining,omitempty"`
	Company *JSONObject[CompanyDetails] `gorm:"column:company;type:text" json:"company,omitempty"`

	PhotoPath string `gorm:"column:photo_path" json:"photo_path,omitempty"`
	PhotoMime string `gorm:"column:photo_mime" json:"photo_mime,omitempty"`
	PhotoSize int64  `gorm:"column:photo_size" json:"photo_size,omitempty"`

	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`

	// PhotoData holds the uploaded image bytes for rendering within the
	// same request. It is never persisted; the archived record keeps only
	// the stored file reference.
	PhotoData []byte `gorm:"-" json:"-"`
}

// TableName overrides
func (Application) TableName() string {
	return "applications"
}

// HasPhoto reports whether a photo was attached to the submission.
func (a *Application) HasPhoto() bool {
	return a.PhotoPath != "" || len(a.PhotoData) > 0
}

// StringList is a []string stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// Join returns the values joined for display, e.g. "Full-Time, Remote".
func (l StringList) Join() string {
	return strings.Join(l, ", ")
}

// JSONRows is a slice of group rows stored as a JSON text column.
type JSONRows[T any] []T

func (r JSONRows[T]) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]T(r))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (r *JSONRows[T]) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*r = nil
		return nil
	}
	return json.Unmarshal(data, (*[]T)(r))
}

// JSONObject is a singleton group stored as a JSON text column. A nil
// *JSONObject means the group was absent from the submission.
type JSONObject[T any] struct {
	Data T
}

func (o JSONObject[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (o *JSONObject[T]) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &o.Data)
}

func (o JSONObject[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Data)
}

func (o *JSONObject[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &o.Data)
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
