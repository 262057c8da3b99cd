package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	// From is the SMTP envelope sender (MAIL FROM). This should be a raw mailbox address.
	From string
	// FromName is an optional display name used only for the message header.
	FromName string
}

type Sender struct {
	config Config
	auth   smtp.Auth
}

func NewSender(config Config) *Sender {
	var auth smtp.Auth
	if config.User != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	return &Sender{
		config: config,
		auth:   auth,
	}
}

// SendMail delivers an HTML message and returns the generated Message-ID.
func (s *Sender) SendMail(ctx context.Context, to, subject, htmlBody string) (string, error) {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)

	fromHeader := s.config.From
	if strings.TrimSpace(s.config.FromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	fromHeader = sanitizeHeader(fromHeader)
	to = sanitizeHeader(to)
	subject = sanitizeHeader(subject)

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.messageDomain())

	msg := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Message-ID: %s", messageID),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}

	body := []byte(strings.Join(msg, "\r\n"))

	if s.auth != nil {
		if err := smtp.SendMail(addr, s.auth, s.config.From, []string{to}, body); err != nil {
			return "", err
		}
		return messageID, nil
	}

	// No auth - connect directly
	c, err := smtp.Dial(addr)
	if err != nil {
		return "", fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = c.Close() }()

	if errMail := c.Mail(s.config.From); errMail != nil {
		return "", fmt.Errorf("mail from: %w", errMail)
	}

	if errRcpt := c.Rcpt(to); errRcpt != nil {
		return "", fmt.Errorf("rcpt to: %w", errRcpt)
	}

	w, err := c.Data()
	if err != nil {
		return "", fmt.Errorf("data: %w", err)
	}

	_, err = w.Write(body)
	if err != nil {
		return "", fmt.Errorf("write: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}

	if err := c.Quit(); err != nil {
		return "", err
	}
	return messageID, nil
}

func (s *Sender) messageDomain() string {
	if i := strings.LastIndex(s.config.From, "@"); i >= 0 && i < len(s.config.From)-1 {
		return s.config.From[i+1:]
	}
	return "localhost"
}

func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
