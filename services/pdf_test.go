package services

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"application-form-api/models"
)

func sampleApplication() *models.Application {
	return &models.Application{
		ApplicationID:  "test-id",
		FullName:       "Asha Verma",
		Phone:          "9876543210",
		Email:          "asha@example.com",
		Position:       "Engineer",
		ApplicationOn:  "2026-08-30",
		EmploymentType: models.StringList{"Full-Time", "Remote"},
		MaritalStatus:  "Single",
		Address:        "12 MG Road, Pune",
		DOB:            "1998-04-17",
		Aadhar:         "123456789012",
		Education: models.JSONRows[models.EducationRow]{
			{Degree: "BSc", Institute: "DU", Year: "2019", Grade: "A", City: "Delhi"},
		},
	}
}

// pdfText decompresses the content streams of a generated document so tests
// can assert on the text operators. Stream data sits between the stream and
// endstream keywords and is zlib-compressed.
func pdfText(t *testing.T, data []byte) string {
	t.Helper()
	var out strings.Builder
	rest := data
	for {
		start := bytes.Index(rest, []byte("stream\n"))
		if start < 0 {
			break
		}
		rest = rest[start+len("stream\n"):]
		end := bytes.Index(rest, []byte("endstream"))
		if end < 0 {
			break
		}
		body := bytes.TrimSuffix(rest[:end], []byte("\n"))
		rest = rest[end:]

		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			continue // image or font stream
		}
		text, err := io.ReadAll(r)
		if err == nil {
			out.Write(text)
		}
		r.Close()
	}
	if out.Len() == 0 {
		t.Fatal("no decodable content streams found")
	}
	return out.String()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := RenderApplicationPDF(sampleApplication())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", data[:16])
	}
}

func TestRenderContentOrderAndHeadings(t *testing.T) {
	app := sampleApplication()
	app.Bank = &models.JSONObject[models.BankDetails]{Data: models.BankDetails{
		BankName: "SBI", AccountNumber: "1234567890",
	}}

	data, err := RenderApplicationPDF(app)
	if err != nil {
		t.Fatal(err)
	}
	text := pdfText(t, data)

	for _, want := range []string{
		OrgName(), "Application Form",
		"Full Name", "Asha Verma",
		"Employment Type", "Full-Time, Remote",
		"Educational Background", "BSc, DU, 2019, A, Delhi",
		"Bank Details", "Bank Name", "SBI",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q", want)
		}
	}

	// Populated personal block comes before the education section.
	if strings.Index(text, "Full Name") > strings.Index(text, "Educational Background") {
		t.Error("personal details must precede the education section")
	}
}

func TestRenderOmitsEmptyGroups(t *testing.T) {
	// Education populated, family empty: an education heading and no
	// family heading at all.
	data, err := RenderApplicationPDF(sampleApplication())
	if err != nil {
		t.Fatal(err)
	}
	text := pdfText(t, data)

	if !strings.Contains(text, "Educational Background") {
		t.Error("education heading missing")
	}
	for _, heading := range []string{
		"Family Details", "Employment History", "Skills & Training",
		"Emergency Contacts", "Bank Details", "Joining Details", "Company Details",
	} {
		if strings.Contains(text, heading) {
			t.Errorf("empty group rendered a %q heading", heading)
		}
	}
}

func TestRenderSuppressesBlankRowFields(t *testing.T) {
	app := sampleApplication()
	app.Education = models.JSONRows[models.EducationRow]{
		{Degree: "BSc", City: "Delhi"},
	}

	data, err := RenderApplicationPDF(app)
	if err != nil {
		t.Fatal(err)
	}
	text := pdfText(t, data)

	if !strings.Contains(text, "1. BSc, Delhi") {
		t.Error("blank row fields should be omitted, not printed as empty slots")
	}
}

func TestRenderWithPhoto(t *testing.T) {
	app := sampleApplication()
	app.PhotoData = tinyPNG(t)
	app.PhotoMime = "image/png"

	data, err := RenderApplicationPDF(app)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("/Subtype /Image")) {
		t.Error("expected an embedded image object")
	}
}

func TestRenderRecoversFromBadPhoto(t *testing.T) {
	app := sampleApplication()
	app.PhotoData = []byte("this is not an image")
	app.PhotoMime = "image/png"

	data, err := RenderApplicationPDF(app)
	if err != nil {
		t.Fatalf("undecodable photo must not fail the render: %v", err)
	}
	if bytes.Contains(data, []byte("/Subtype /Image")) {
		t.Error("bad photo should be skipped, not embedded")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	// The sample uses several fonts, so catalog objects must come out in
	// a stable order for the bytes to match run to run.
	first, err := RenderApplicationPDF(sampleApplication())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		again, err := RenderApplicationPDF(sampleApplication())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("render %d differs from the first for an identical record", i+2)
		}
	}
}
