package utils

import (
	"fmt"
	"net/smtp"

	"a1taxi/config"
)

// SendEmail delivers an HTML email through the configured SMTP relay.
// Returns nil without sending when SMTP is not configured, so receipts are
// best-effort in environments without a mail relay.
func SendEmail(to []string, subject, body string) error {
	cfg := config.Envs
	if cfg.SMTPHost == "" {
		return nil
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)

	headers := "MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		fmt.Sprintf("From: A1 Taxi <%s>\r\n", from) +
		fmt.Sprintf("To: %s\r\n", to[0]) +
		fmt.Sprintf("Subject: %s\r\n\r\n", subject)

	msg := []byte(headers + body)

	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)
	return smtp.SendMail(addr, auth, from, to, msg)
}
