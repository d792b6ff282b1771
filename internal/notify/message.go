// Package notify formats extraction job notifications.
package notify

import (
	"fmt"
	"strings"
	"time"

	"taxextract/internal/domain"
)

// Message is a rendered job notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// JobFinished renders the notification for a job in a terminal status.
func JobFinished(job *domain.ExtractionJob) Message {
	outcome := "completed"
	if job.Status == domain.JobStatusFailed {
		outcome = "failed"
	}
	subject := fmt.Sprintf("Extraction %s: %s/%s (%s)", outcome, job.ClientID, job.BlobName, job.FormType)

	var b strings.Builder
	fmt.Fprintf(&b, "Job:       %s\n", job.ID)
	fmt.Fprintf(&b, "Client:    %s\n", job.ClientID)
	fmt.Fprintf(&b, "Document:  %s\n", job.BlobName)
	fmt.Fprintf(&b, "Form type: %s\n", job.FormType)
	fmt.Fprintf(&b, "Status:    %s after %d attempt(s)\n", job.Status, job.Attempts)
	if job.Status == domain.JobStatusCompleted {
		fmt.Fprintf(&b, "Fields:    %d\n", job.FieldsWritten)
		fmt.Fprintf(&b, "URL:       %s\n", job.DocURL)
	}
	if job.LastError != "" {
		fmt.Fprintf(&b, "Error:     %s\n", job.LastError)
	}
	if job.CompletedAt != nil {
		fmt.Fprintf(&b, "Finished:  %s\n", job.CompletedAt.UTC().Format(time.RFC3339))
	}
	text := b.String()

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <pre style="background: #f6f6f6; padding: 12px; border-radius: 6px;">%s</pre>
</body>
</html>`, htmlEscape(subject), htmlEscape(text))

	return Message{Subject: subject, Text: text, HTML: html}
}

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}
