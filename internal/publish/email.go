package publish

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/pkg/email"
)

// EmailAdapter delivers the post as an HTML email. The receipt is the
// generated Message-ID.
type EmailAdapter struct {
	sender *email.Sender
	to     string
}

func NewEmailAdapter(sender *email.Sender, to string) *EmailAdapter {
	return &EmailAdapter{sender: sender, to: to}
}

func (a *EmailAdapter) Platform() content.Platform {
	return content.PlatformEmail
}

func (a *EmailAdapter) Publish(ctx context.Context, req Request) (*Receipt, error) {
	if a.to == "" {
		return nil, newError(content.PlatformEmail, KindValidation,
			fmt.Errorf("no recipient configured"))
	}

	body, err := renderPostEmail(req)
	if err != nil {
		return nil, newError(content.PlatformEmail, KindValidation, err)
	}

	messageID, err := a.sender.SendMail(ctx, a.to, emailSubject(req.Text), body)
	if err != nil {
		return nil, newError(content.PlatformEmail, KindTransport, err)
	}

	return &Receipt{ExternalID: messageID}, nil
}

func emailSubject(text string) string {
	preview := text
	if len(preview) > 60 {
		preview = preview[:57] + "..."
	}
	return fmt.Sprintf("[showNDev] Approved Post: %s", preview)
}

type postEmailData struct {
	Text       string
	TextLength int
	Images     []string
	Videos     []string
	Audio      []string
	SentAt     string
}

func renderPostEmail(req Request) (string, error) {
	data := postEmailData{
		Text:       req.Text,
		TextLength: len(req.Text),
		Images:     req.Images,
		Videos:     req.Videos,
		Audio:      req.Audio,
		SentAt:     time.Now().UTC().Format("January 2, 2006 at 3:04 PM UTC"),
	}

	tpl, err := template.New("post_email").Parse(postEmailTemplate)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

const postEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Approved Post</h2>
  <div style="border: 1px solid #ddd; border-radius: 8px; padding: 16px; white-space: pre-wrap;">{{.Text}}</div>
  <p style="color: #888;">{{.TextLength}} characters</p>
  {{if .Images}}
  <h3>Images</h3>
  <ul>{{range .Images}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
  {{if .Videos}}
  <h3>Videos</h3>
  <ul>{{range .Videos}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
  {{if .Audio}}
  <h3>Audio</h3>
  <ul>{{range .Audio}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
  <p style="color: #888; font-size: 12px;">Sent {{.SentAt}}</p>
</body>
</html>`
