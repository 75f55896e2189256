package mailer

import mailtpl "github.com/oksasatya/learnpath-auth/pkg/mailer/templates"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the job enqueued after a successful registration.
func NewWelcomeJob(to, name, role, companyName, loginURL string) EmailJob {
	return EmailJob{
		To:       to,
		Template: mailtpl.Welcome,
		Data: map[string]any{
			"Name":        name,
			"Email":       to,
			"Role":        role,
			"CompanyName": companyName,
			"LoginURL":    loginURL,
		},
	}
}

// Render resolves the job into subject, text and html bodies.
// Template jobs are rendered from the embedded templates; raw jobs pass through.
func (j EmailJob) Render() (subject, text, html string, err error) {
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	return mailtpl.Render(j.Template, j.Data)
}
