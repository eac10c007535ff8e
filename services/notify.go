package services

import (
	"fmt"
	"html"

	"application-form-api/config"
	"application-form-api/models"
)

// SendConfirmationEmail sends the applicant a receipt for their archived
// submission. Failures are the caller's to log; they never fail the request.
func SendConfirmationEmail(app *models.Application) error {
	if app.Email == "" || !config.MailConfigured() {
		return nil
	}

	subject := fmt.Sprintf("Application received - %s", OrgName())
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your application for the position of <b>%s</b> has been received.</p>
		<p>Reference: %s</p>
		<p>%s</p>`,
		html.EscapeString(app.FullName),
		html.EscapeString(app.Position),
		html.EscapeString(app.ApplicationID),
		html.EscapeString(OrgName()),
	)

	return config.SendMail([]string{app.Email}, subject, body)
}
