package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/JS-Ranker/tester/pkg/config"
)

// ErrNoRecipient is returned when a message has no destination address.
var ErrNoRecipient = errors.New("email: no recipient")

// Sender delivers notifications to pet owners.
type Sender interface {
	SendWelcome(to, ownerName, formattedRUT string) error
}

// Client sends mail through an SMTP relay.
type Client struct {
	host     string
	port     string
	username string
	password string
	from     string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now  func() time.Time
}

// NewClient returns nil when no SMTP host is configured, so callers can
// treat email as optional.
func NewClient(cfg config.EmailConfig) *Client {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil
	}
	return &Client{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		send:     smtp.SendMail,
		now:      time.Now,
	}
}

// Options describes a single message.
type Options struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Send wraps the HTML body in the portal layout and delivers it.
func (c *Client) Send(opts Options) error {
	if strings.TrimSpace(opts.To) == "" {
		return ErrNoRecipient
	}

	html, err := c.layout(template.HTML(opts.HTML))
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if c.username != "" {
		auth = smtp.PlainAuth("", c.username, c.password, c.host)
	}

	addr := c.host + ":" + c.port
	if err := c.send(addr, auth, c.from, []string{opts.To}, c.buildMessage(opts.To, opts.Subject, html, opts.Text)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var layoutTemplate = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background:#f4f7f6;">
  <div style="max-width:600px;margin:32px auto;background:#fff;border-radius:8px;padding:32px;">
    <h2 style="color:#2e8b57;margin:0 0 24px;text-align:center;">VetPortal</h2>
    <div style="font-size:16px;color:#333;">{{.Content}}</div>
    <div style="margin-top:32px;text-align:center;color:#aaa;font-size:12px;">&copy; {{.Year}} VetPortal</div>
  </div>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hola {{.Name}},</p>
<p>Your owner account is ready. Sign in with your RUT <strong>{{.RUT}}</strong> to register your pets.</p>`))

func (c *Client) layout(content template.HTML) (string, error) {
	var buf bytes.Buffer
	err := layoutTemplate.Execute(&buf, map[string]interface{}{
		"Content": content,
		"Year":    c.now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("render email layout: %w", err)
	}
	return buf.String(), nil
}

const boundary = "vetportal-boundary"

func (c *Client) buildMessage(to, subject, html, text string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	if text != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n", boundary, text)
	}
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n", boundary, html)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// SendWelcome greets a newly registered owner.
func (c *Client) SendWelcome(to, ownerName, formattedRUT string) error {
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, map[string]string{"Name": ownerName, "RUT": formattedRUT}); err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	return c.Send(Options{
		To:      to,
		Subject: "Welcome to VetPortal",
		HTML:    body.String(),
		Text:    fmt.Sprintf("Hola %s, your VetPortal account for RUT %s is ready.", ownerName, formattedRUT),
	})
}
