package routes

import (
	"application-form-api/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Application Form API is running",
			})
		})

		// Application submissions
		applications := v1.Group("/applications")
		{
			// Submit a form and receive the rendered document
			applications.POST("/generate-pdf", controllers.GeneratePDF)

			// Archived records
			applications.GET("", controllers.GetApplications)
			applications.GET("/:id", controllers.GetApplication)
			applications.GET("/:id/pdf", controllers.GetApplicationPDF)
		}
	}

	// Compatibility route for clients posting to the legacy path
	router.POST("/generate-pdf", controllers.GeneratePDF)
}
