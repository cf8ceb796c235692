package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Sender delivers one-time passwords to account holders.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

type resendSender struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

func (s *resendSender) SendOTP(ctx context.Context, to, code string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Your password reset code",
		Html: fmt.Sprintf(
			"<p>Your one-time password is <strong>%s</strong>.</p><p>It expires in 5 minutes.</p>",
			code,
		),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.log.Error("Error sending OTP email",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("OTP email sent",
		zap.String("to", to),
		zap.String("email_id", sent.Id),
	)

	return nil
}

func NewResendSender(apiKey, from string, log *zap.Logger) Sender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}
