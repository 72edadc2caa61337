package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/homestock/auth-api/pkg/logger"
)

// MailSender is the fire-and-forget mail transport used by the recovery flow.
type MailSender interface {
	SendRecoveryCode(ctx context.Context, email, code string, expiresAt time.Time) error
}

// AWSSESMailSender sends recovery codes using AWS SES
type AWSSESMailSender struct {
	sesClient   *ses.Client
	fromAddress string
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewAWSSESMailSender creates a new AWS SES mail sender
func NewAWSSESMailSender(region, fromAddress string, sendTimeout time.Duration, logger *slog.Logger) (*AWSSESMailSender, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESMailSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		sendTimeout: sendTimeout,
		logger:      logger,
	}, nil
}

// SendRecoveryCode mails the one-time passcode for a password reset.
func (s *AWSSESMailSender) SendRecoveryCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}

	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>Password Reset Code</h2>
        <p>Your one-time passcode for resetting your HomeStock password is:</p>
        <p style="font-size: 28px; letter-spacing: 4px;"><strong>%s</strong></p>
        <p>This code will expire in %d minutes.</p>
        <p>If you did not request a password reset, you can ignore this email. Your password will not change.</p>
    </div>
</body>
</html>
`, code, minutes)

	textBody := fmt.Sprintf(`Your one-time passcode for resetting your HomeStock password is: %s

This code will expire in %d minutes.

If you did not request a password reset, you can ignore this email. Your password will not change.
`, code, minutes)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Password Reset OTP"),
			},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send recovery code via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("recovery code sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("message_id", *result.MessageId))

	return nil
}
