package services

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"application-form-api/models"
)

// Page geometry and type sizes for the generated form.
const (
	pageMargin    = 15.0
	lineHeight    = 6.0
	labelWidth    = 50.0
	detailWidth   = 130.0 // personal block stays clear of the photo corner
	photoX        = 158.0
	photoY        = 28.0
	photoWidth    = 35.0
	photoHeight   = 42.0
	headingSize   = 13.0
	bodySize      = 11.0
	titleSize     = 18.0
	subtitleSize  = 14.0
	defaultOrgHdr = "7S IQ PRIVATE LIMITED"
)

var renderEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// OrgName returns the letterhead organization name.
func OrgName() string {
	if name := os.Getenv("ORG_NAME"); name != "" {
		return name
	}
	return defaultOrgHdr
}

// RenderApplicationPDF renders the canonical record into a paginated A4
// document. Content order is fixed: letterhead, optional corner photo,
// personal details, repeated groups (education, employment, skills, family,
// emergency), then singleton groups (bank, joining, company). Groups with no
// content emit neither heading nor body. Rendering is a pure function of the
// record; a photo that cannot be decoded is skipped with a logged warning
// and never fails the render.
func RenderApplicationPDF(app *models.Application) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Fixed metadata dates and sorted catalog objects keep the output
	// reproducible: identical records render to identical bytes.
	pdf.SetCreationDate(renderEpoch)
	pdf.SetModificationDate(renderEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 10, OrgName(), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", subtitleSize)
	pdf.CellFormat(0, 8, "Application Form", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	photoDrawn := drawPhoto(pdf, app)

	// Personal details
	pdf.SetFont("Helvetica", "", bodySize)
	writeKeyValue(pdf, detailWidth, "Full Name", app.FullName)
	writeKeyValue(pdf, detailWidth, "Phone Number", app.Phone)
	writeKeyValue(pdf, detailWidth, "Email ID", app.Email)
	writeKeyValue(pdf, detailWidth, "Position", app.Position)
	writeKeyValue(pdf, detailWidth, "Date of Application", app.ApplicationOn)
	writeKeyValue(pdf, detailWidth, "Employment Type", app.EmploymentType.Join())
	writeKeyValue(pdf, detailWidth, "Marital Status", app.MaritalStatus)
	writeKeyValue(pdf, detailWidth, "Address", app.Address)
	writeKeyValue(pdf, detailWidth, "DOB", app.DOB)
	writeKeyValue(pdf, detailWidth, "Aadhar Number", app.Aadhar)
	pdf.Ln(4)

	// Keep flowing text below the photo thumbnail.
	if photoDrawn && pdf.PageNo() == 1 && pdf.GetY() < photoY+photoHeight+4 {
		pdf.SetY(photoY + photoHeight + 4)
	}

	renderRowSection(pdf, "Educational Background", len(app.Education), func(i int) []string {
		e := app.Education[i]
		return []string{joinPresent(", ", e.Degree, e.Institute, e.Year, e.Grade, e.City)}
	})
	renderRowSection(pdf, "Employment History", len(app.Employment), func(i int) []string {
		e := app.Employment[i]
		head := joinPresent(" - ", e.Company, e.Position)
		if e.Year != "" {
			head += " (" + e.Year + ")"
		}
		lines := []string{head}
		if e.Reason != "" {
			lines = append(lines, "Reason: "+e.Reason)
		}
		return lines
	})
	renderRowSection(pdf, "Skills & Training", len(app.Skills), func(i int) []string {
		s := app.Skills[i]
		return []string{joinPresent(" | ", s.Skill, s.Level, s.Year, s.Institute)}
	})
	renderRowSection(pdf, "Family Details", len(app.Family), func(i int) []string {
		f := app.Family[i]
		return []string{joinPresent(" - ", f.Name, f.Relation, f.Occupation)}
	})
	renderRowSection(pdf, "Emergency Contacts", len(app.Emergency), func(i int) []string {
		e := app.Emergency[i]
		return []string{joinPresent(", ", e.Name, e.Relationship, e.Occupation, e.Qualification, e.City)}
	})

	if app.Bank != nil {
		b := app.Bank.Data
		renderKeyValueSection(pdf, "Bank Details", []keyValue{
			{"Bank Name", b.BankName},
			{"Account Holder", b.AccountHolder},
			{"Account Number", b.AccountNumber},
			{"IFSC Code", b.IFSC},
			{"Branch", b.Branch},
		})
	}
	if app.Joining != nil {
		j := app.Joining.Data
		renderKeyValueSection(pdf, "Joining Details", []keyValue{
			{"Joining Date", j.JoiningDate},
			{"Fees", j.Fees},
			{"1st Installment", j.FirstInstallment},
			{"2nd Installment", j.SecondInstallment},
			{"3rd Installment", j.ThirdInstallment},
			{"Notice Period", j.NoticePeriod},
		})
	}
	if app.Company != nil {
		c := app.Company.Data
		renderKeyValueSection(pdf, "Company Details", []keyValue{
			{"Company Name", c.Name},
			{"Address", c.Address},
			{"Contact", c.Contact},
			{"Receiver Signature", c.ReceiverSignature},
			{"HR Signature", c.HRSignature},
		})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPhoto places the applicant photo as a fixed-size thumbnail in the
// top-right corner. An undecodable payload is a recoverable condition: the
// render continues without the image.
func drawPhoto(pdf *fpdf.Fpdf, app *models.Application) bool {
	if len(app.PhotoData) == 0 {
		return false
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(app.PhotoData))
	if err != nil {
		log.Printf("Warning: application %s: photo is not a decodable image, rendering without it: %v",
			app.ApplicationID, err)
		return false
	}
	var imageType string
	switch format {
	case "jpeg":
		imageType = "JPG"
	case "png":
		imageType = "PNG"
	case "gif":
		imageType = "GIF"
	default:
		log.Printf("Warning: application %s: unsupported photo format %q, rendering without it",
			app.ApplicationID, format)
		return false
	}

	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader("applicant-photo", opts, bytes.NewReader(app.PhotoData))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		log.Printf("Warning: application %s: could not embed photo: %v", app.ApplicationID, err)
		return false
	}
	pdf.ImageOptions("applicant-photo", photoX, photoY, photoWidth, photoHeight, false, opts, 0, "")
	return true
}

type keyValue struct {
	label string
	value string
}

// renderRowSection writes an underlined section heading followed by one
// numbered entry per row. Sections with zero rows emit nothing.
func renderRowSection(pdf *fpdf.Fpdf, title string, count int, rowLines func(i int) []string) {
	if count == 0 {
		return
	}
	writeHeading(pdf, title)
	pdf.SetFont("Helvetica", "", bodySize)
	for i := 0; i < count; i++ {
		for j, line := range rowLines(i) {
			if j == 0 {
				line = fmt.Sprintf("%d. %s", i+1, line)
			} else {
				line = "   " + line
			}
			pdf.MultiCell(0, lineHeight, line, "", "L", false)
		}
	}
	pdf.Ln(4)
}

// renderKeyValueSection writes an underlined heading plus label/value lines,
// skipping blank values. A group with no populated values emits nothing.
func renderKeyValueSection(pdf *fpdf.Fpdf, title string, pairs []keyValue) {
	var present []keyValue
	for _, kv := range pairs {
		if strings.TrimSpace(kv.value) != "" {
			present = append(present, kv)
		}
	}
	if len(present) == 0 {
		return
	}
	writeHeading(pdf, title)
	pdf.SetFont("Helvetica", "", bodySize)
	for _, kv := range present {
		writeKeyValue(pdf, 0, kv.label, kv.value)
	}
	pdf.Ln(4)
}

func writeHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "U", headingSize)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// writeKeyValue writes one "Label : value" line. width limits the total line
// width; zero means the full content width.
func writeKeyValue(pdf *fpdf.Fpdf, width float64, label, value string) {
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	valueWidth := 0.0
	if width > 0 {
		valueWidth = width - labelWidth
	}
	pdf.MultiCell(valueWidth, lineHeight, ": "+value, "", "L", false)
}

// joinPresent joins the non-empty values with sep.
func joinPresent(sep string, values ...string) string {
	var present []string
	for _, v := range values {
		if v != "" {
			present = append(present, v)
		}
	}
	return strings.Join(present, sep)
}
