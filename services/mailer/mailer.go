// Package mailer sends the transactional mail of the pass workflow over SMTP.
package mailer

import (
	"fmt"
	"io"

	"visitor-pass/models/visitor"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP transport settings, injected at construction.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers workflow mail through a single SMTP account.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates an SMTP mailer from the given transport config
func New(cfg Config) *SMTPMailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendApprovalRequest mails the host the approve/reject links for a freshly
// submitted request.
func (m *SMTPMailer) SendApprovalRequest(v *visitor.Visitor, approveURL, rejectURL string) error {
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>%s has requested a visit on %s.</p>
		<p><strong>Purpose:</strong> %s</p>
		<p><a href="%s">✅ Click here to approve</a></p>
		<p><a href="%s">❌ Click here to reject</a></p>
	`, v.Host, v.Name, v.VisitDate, v.Purpose, approveURL, rejectURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", v.HostEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Approval Needed - %s", v.PassNumber))
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send approval request for %s: %w", v.PassNumber, err)
	}
	return nil
}

// SendPassIssued mails the rendered pass to both visitor and host.
func (m *SMTPMailer) SendPassIssued(v *visitor.Visitor, pdf []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", v.Email, v.HostEmail)
	msg.SetHeader("Subject", fmt.Sprintf("TRF Visitor Pass - %s", v.PassNumber))
	msg.SetBody("text/plain", "Your visit is approved. See attached pass.")
	msg.Attach("visitor-pass.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send issued pass %s: %w", v.PassNumber, err)
	}
	return nil
}

// SendRejection notifies the visitor that the host declined the request.
// No document is attached.
func (m *SMTPMailer) SendRejection(v *visitor.Visitor) error {
	body := fmt.Sprintf("Hello %s,\n\nYour visit request for %s was rejected by %s.\n",
		v.Name, v.VisitDate, v.Host)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", v.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Visit Request Rejected - %s", v.PassNumber))
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send rejection for %s: %w", v.PassNumber, err)
	}
	return nil
}
