package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"application-form-api/config"
	"application-form-api/models"
	"application-form-api/services"
)

type applicationSummary struct {
	ApplicationID string `json:"application_id"`
	FullName      string `json:"full_name"`
	Position      string `json:"position"`
	CreateAt      string `json:"create_at"`
}

// GetApplications lists archived applications, newest first.
func GetApplications(c *gin.Context) {
	var apps []models.Application
	if err := config.DB.Order("create_at DESC").Find(&apps).Error; err != nil {
		log.Printf("Error: failed to list applications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	summaries := make([]applicationSummary, 0, len(apps))
	for _, app := range apps {
		summaries = append(summaries, applicationSummary{
			ApplicationID: app.ApplicationID,
			FullName:      app.FullName,
			Position:      app.Position,
			CreateAt:      app.CreateAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": summaries,
		"total":        len(summaries),
	})
}

// GetApplication returns one archived record as JSON.
func GetApplication(c *gin.Context) {
	app, ok := findApplication(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, app)
}

// GetApplicationPDF re-renders the document for an archived record.
// Rendering is a pure function of the record, so the bytes match the
// document streamed at submission time.
func GetApplicationPDF(c *gin.Context) {
	app, ok := findApplication(c)
	if !ok {
		return
	}

	if app.PhotoPath != "" {
		data, err := os.ReadFile(app.PhotoPath)
		if err != nil {
			log.Printf("Warning: application %s: stored photo unavailable, rendering without it: %v",
				app.ApplicationID, err)
		} else {
			app.PhotoData = data
		}
	}

	pdfBytes, err := services.RenderApplicationPDF(app)
	if err != nil {
		log.Printf("Error: application %s: render stage failed: %v", app.ApplicationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", pdfFilename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func findApplication(c *gin.Context) (*models.Application, bool) {
	var app models.Application
	err := config.DB.Where("application_id = ?", c.Param("id")).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("Error: failed to fetch application %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		return nil, false
	}
	return &app, true
}
