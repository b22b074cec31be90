package mailer

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"gopkg.in/gomail.v2"
)

// SMTPMailer notifies listing owners about moderation decisions.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendModerationResult tells the owner whether their listing was approved.
func (m *SMTPMailer) SendModerationResult(ctx context.Context, to string, listing *domain.Listing, action domain.ModerationAction, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := moderationMessage(m.from, to, listing.Name, action, reason)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send moderation email to %s: %w", to, err)
	}
	return nil
}

func moderationMessage(from, to, listingName string, action domain.ModerationAction, reason string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)

	switch action {
	case domain.ActionApproved:
		msg.SetHeader("Subject", fmt.Sprintf("UMKM \"%s\" telah disetujui", listingName))
		msg.SetBody("text/plain", fmt.Sprintf(
			"Selamat! UMKM \"%s\" telah diverifikasi dan sekarang tampil di direktori.", listingName))
	default:
		msg.SetHeader("Subject", fmt.Sprintf("UMKM \"%s\" ditolak", listingName))
		body := fmt.Sprintf("Mohon maaf, UMKM \"%s\" belum dapat kami setujui.", listingName)
		if reason != "" {
			body += "\n\nAlasan: " + reason
		}
		msg.SetBody("text/plain", body)
	}
	return msg
}
