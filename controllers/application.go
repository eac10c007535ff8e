package controllers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"application-form-api/config"
	"application-form-api/formdata"
	"application-form-api/models"
	"application-form-api/services"
	"application-form-api/utils"
)

const (
	maxPhotoBytes = 8 << 20
	maxFieldBytes = 1 << 20

	pdfFilename = "Application_Form.pdf"
)

// GeneratePDF accepts one application submission, archives it and streams
// back the generated PDF. The body may be JSON with nested groups, a
// multipart form with flat bracket-indexed keys plus an optional photo file
// part, or a urlencoded form with the same flat keys. All three decode to
// the same canonical shape before validation.
func GeneratePDF(c *gin.Context) {
	var (
		decoded formdata.Decoded
		photo   *models.PhotoUpload
		err     error
	)

	contentType := c.ContentType()
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		decoded, err = decodeJSONSubmission(c)
	case strings.HasPrefix(contentType, "multipart/form-data"):
		decoded, photo, err = decodeMultipartSubmission(c)
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		decoded, err = decodeURLEncodedSubmission(c)
	default:
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Unsupported content type"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not parse submission body"})
		return
	}

	policy := services.PhotoPolicy{Required: os.Getenv("PHOTO_REQUIRED") == "true"}
	if fieldErrs := services.ValidateSubmission(decoded, photo, policy); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": fieldErrs,
		})
		return
	}

	if photo != nil && len(photo.Data) > 0 {
		if err := savePhotoFile(photo); err != nil {
			// The inline bytes still render; only the archived file
			// reference is lost.
			log.Printf("Warning: failed to store photo upload: %v", err)
		}
	}

	app := services.AssembleApplication(decoded, photo)

	// Archival happens-before rendering: a client never receives a
	// document for an un-archived submission.
	if err := config.DB.Create(app).Error; err != nil {
		log.Printf("Error: application %s: archive stage failed: %v", app.ApplicationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive application"})
		return
	}

	// Best-effort receipt; the record is immutable so the goroutine can
	// read it safely.
	go func(app *models.Application) {
		if err := services.SendConfirmationEmail(app); err != nil {
			log.Printf("Warning: application %s: confirmation email not sent: %v", app.ApplicationID, err)
		}
	}(app)

	pdfBytes, err := services.RenderApplicationPDF(app)
	if err != nil {
		log.Printf("Error: application %s: render stage failed: %v", app.ApplicationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", pdfFilename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// decodeMultipartSubmission reads the parts in wire order so repeated-group
// rows keep their first-appearance ordering, which a parsed form map would
// lose. The first "photo" file part is captured; other file parts are
// skipped.
func decodeMultipartSubmission(c *gin.Context) (formdata.Decoded, *models.PhotoUpload, error) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		return formdata.Decoded{}, nil, err
	}

	raw := &formdata.RawFieldSet{}
	var photo *models.PhotoUpload

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return formdata.Decoded{}, nil, err
		}

		if part.FileName() != "" {
			if part.FormName() == "photo" && photo == nil {
				data, err := io.ReadAll(io.LimitReader(part, maxPhotoBytes+1))
				if err != nil {
					return formdata.Decoded{}, nil, err
				}
				if len(data) > maxPhotoBytes {
					return formdata.Decoded{}, nil, fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes)
				}
				photo = &models.PhotoUpload{
					Filename: filepath.Base(part.FileName()),
					MimeType: part.Header.Get("Content-Type"),
					Size:     int64(len(data)),
					Data:     data,
				}
			}
			continue
		}

		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return formdata.Decoded{}, nil, err
		}
		if len(value) > maxFieldBytes {
			return formdata.Decoded{}, nil, fmt.Errorf("field %s exceeds %d bytes", part.FormName(), maxFieldBytes)
		}
		raw.Add(part.FormName(), utils.SanitizeInput(string(value)))
	}

	return formdata.Decode(raw, formdata.ApplicationSchema), photo, nil
}

// decodeURLEncodedSubmission parses the body by hand instead of via
// ParseForm, again to preserve the wire order of the flat keys.
func decodeURLEncodedSubmission(c *gin.Context) (formdata.Decoded, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFieldBytes+1))
	if err != nil {
		return formdata.Decoded{}, err
	}
	if len(body) > maxFieldBytes {
		return formdata.Decoded{}, fmt.Errorf("form body exceeds %d bytes", maxFieldBytes)
	}

	raw := &formdata.RawFieldSet{}
	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		raw.Add(decodedKey, utils.SanitizeInput(decodedValue))
	}

	return formdata.Decode(raw, formdata.ApplicationSchema), nil
}

// decodeJSONSubmission converts a nested JSON body to the same decoded
// structure the codec produces. The string-or-array ambiguity of
// employmentType is normalized here, and non-string leaf values (numbers,
// booleans) are coerced to their text form. Unknown fields are ignored.
func decodeJSONSubmission(c *gin.Context) (formdata.Decoded, error) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return formdata.Decoded{}, err
	}

	decoded := formdata.Decoded{
		Scalars:    make(map[string][]string),
		RowGroups:  make(map[string][]formdata.Row),
		Singletons: make(map[string]map[string]string),
	}

	for _, name := range formdata.ApplicationSchema.Scalars {
		value, ok := body[name]
		if !ok {
			continue
		}
		if name == "employmentType" {
			decoded.Scalars[name] = stringValues(value)
			continue
		}
		decoded.Scalars[name] = []string{leafString(value)}
	}

	for _, group := range formdata.ApplicationSchema.RowGroups {
		items, ok := body[group.Prefix].([]interface{})
		if !ok {
			continue
		}
		for i, item := range items {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			row := formdata.Row{Index: strconv.Itoa(i), Fields: make(map[string]string)}
			for _, field := range group.Fields {
				if value := leafString(obj[field]); value != "" {
					row.Fields[field] = value
				}
			}
			decoded.RowGroups[group.Prefix] = append(decoded.RowGroups[group.Prefix], row)
		}
	}

	for _, group := range formdata.ApplicationSchema.Singletons {
		obj, ok := body[group.Prefix].(map[string]interface{})
		if !ok {
			continue
		}
		fields := make(map[string]string)
		for _, field := range group.Fields {
			if value := leafString(obj[field]); value != "" {
				fields[field] = value
			}
		}
		if len(fields) > 0 {
			decoded.Singletons[group.Prefix] = fields
		}
	}

	return decoded, nil
}

// leafString coerces a decoded JSON leaf to its sanitized text form.
func leafString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return utils.SanitizeInput(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// stringValues accepts a single string or an array of leaves.
func stringValues(value interface{}) []string {
	switch v := value.(type) {
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			values = append(values, leafString(item))
		}
		return values
	default:
		if s := leafString(value); s != "" {
			return []string{s}
		}
		return nil
	}
}

// savePhotoFile writes the upload under UPLOAD_PATH with a timestamped name
// and records the stored path on the upload.
func savePhotoFile(photo *models.PhotoUpload) error {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return err
	}

	name := photo.Filename
	if name == "" {
		name = "photo"
	}
	storedPath := filepath.Join(uploadPath, fmt.Sprintf("%d-%s", time.Now().UnixNano(), name))
	if err := os.WriteFile(storedPath, photo.Data, 0o644); err != nil {
		return err
	}

	photo.StoredPath = storedPath
	return nil
}
