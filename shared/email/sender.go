package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"socialforge/internal/models"
	"socialforge/shared/config"
)

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// digestTemplate renders the approval digest: one card per queued item.
var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
<h2>Content ready for review - {{.Date}}</h2>
<p>{{.Count}} item(s) queued for approval. Estimated media cost: ${{printf "%.4f" .Cost}}</p>
{{range .Items}}
<div style="border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin-bottom: 12px;">
	<h3 style="margin: 0 0 4px 0;">{{.Platform}} &middot; {{.ContentType}} &middot; variant {{.VariantID}}</h3>
	<p style="margin: 0 0 8px 0; color: #666;">Viral score: {{.Score.Overall}}/100 &middot; est. reach {{.Score.EstimatedReach}}</p>
	<p style="white-space: pre-line;">{{.Body}}</p>
	{{if .Hashtags}}<p style="color: #3366cc;">{{range .Hashtags}}{{.}} {{end}}</p>{{end}}
</div>
{{end}}
</body>
</html>`))

// SendDigest emails the pending items from a run. A run with no queued
// items sends nothing.
func (s *Sender) SendDigest(items []models.FinalizedItem, cost float64) error {
	var queued []models.FinalizedItem
	for _, item := range items {
		if item.Status == models.ItemPending {
			queued = append(queued, item)
		}
	}
	if len(queued) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Content Approval Digest - %d items ready (%s)",
		len(queued), time.Now().Format("Jan 2, 2006"))

	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		Date  string
		Count int
		Cost  float64
		Items []models.FinalizedItem
	}{
		Date:  time.Now().Format("Jan 2, 2006"),
		Count: len(queued),
		Cost:  cost,
		Items: queued,
	})
	if err != nil {
		return fmt.Errorf("failed to generate digest body: %w", err)
	}

	return s.sendViaSMTP(subject, buf.String())
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}
