package mailer

import (
	"context"
	"fmt"
	"strings"

	tpl "github.com/oksasatya/go-ddd-user-mediator/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// With Template set, subject and bodies are rendered from Data; Subject and
// Text then only serve as a fallback when the template is unknown.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "account_activation" or "password_reset"
	Data     map[string]any `json:"data,omitempty"`
}

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Prepare fills the recipient fields templates rely on.
func (j *EmailJob) Prepare() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := j.Data[k]; !ok || fmt.Sprintf("%v", v) == "" {
			j.Data[k] = j.To
		}
	}
	j.Template = strings.ToLower(strings.TrimSpace(j.Template))
}

// Compose renders the job. Jobs without a known template go out with the
// subject and bodies they carry.
func (j EmailJob) Compose() (subject, text, html string, err error) {
	switch j.Template {
	case tpl.AccountActivation, tpl.PasswordReset:
		return tpl.Render(j.Template, j.Data)
	}
	if j.Subject == "" || (j.Text == "" && j.HTML == "") {
		return "", "", "", fmt.Errorf("mailer: job for %s has no template and no body", j.To)
	}
	return j.Subject, j.Text, j.HTML, nil
}

// Deliver prepares, renders and sends job.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	job.Prepare()
	subject, text, html, err := job.Compose()
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}
