package notify

import (
	"fmt"
	"html"

	"contentflow/internal/config"
	"contentflow/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .success { color: #059669; }
        .warning { color: #d97706; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// ContentApproved generates the email sent to agency staff when a client
// approves a piece.
func (t *Templates) ContentApproved(piece *models.ContentPiece, client *models.Client) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Approved: %s", t.cfg.SiteTitle, piece.Title)

	content := fmt.Sprintf(`
        <p>The client approved a piece. It is ready to be scheduled or published.</p>

        <div class="info-box">
            <p><span class="label">Title:</span> %s</p>
            <p><span class="label">Client:</span> %s</p>
            <p><span class="label">Status:</span> <span class="success">Approved</span></p>
            <p><span class="label">Planned date:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s/board" class="button">Open the board</a>
        </p>
    `,
		html.EscapeString(piece.Title),
		html.EscapeString(client.Name),
		piece.ScheduledAt.Format("Mon, 02 Jan 2006 15:04"),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Content approved

Title: %s
Client: %s
Status: approved
Planned date: %s

Board: %s/board

--
%s
%s`,
		piece.Title,
		client.Name,
		piece.ScheduledAt.Format("Mon, 02 Jan 2006 15:04"),
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// ChangesRequested generates the email sent to agency staff when a client
// sends a piece back for changes.
func (t *Templates) ChangesRequested(piece *models.ContentPiece, client *models.Client, reason string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Changes requested: %s", t.cfg.SiteTitle, piece.Title)

	content := fmt.Sprintf(`
        <p>The client asked for changes on a piece.</p>

        <div class="info-box">
            <p><span class="label">Title:</span> %s</p>
            <p><span class="label">Client:</span> %s</p>
            <p><span class="label">Status:</span> <span class="warning">Changes requested</span></p>
            <p><span class="label">Reason:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s/board" class="button">Open the board</a>
        </p>
    `,
		html.EscapeString(piece.Title),
		html.EscapeString(client.Name),
		html.EscapeString(reason),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Changes requested

Title: %s
Client: %s
Status: changes_requested
Reason: %s

Board: %s/board

--
%s
%s`,
		piece.Title,
		client.Name,
		reason,
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}
