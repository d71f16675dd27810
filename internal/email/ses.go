package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/grommetlabs/storefront-api/internal/aws"
)

// ErrNotConfigured is returned when the sender identity is missing. The OTP
// issue path turns this into a 500 instead of silently skipping dispatch.
var ErrNotConfigured = errors.New("email dispatch is not configured")

// SESDispatcher sends transactional email through SES v2.
type SESDispatcher struct {
	SES         aws.SESAPI
	SenderEmail string
	SenderName  string
}

// NewSESDispatcher returns a Dispatcher bound to a sender identity.
func NewSESDispatcher(sesClient aws.SESAPI, senderEmail, senderName string) *SESDispatcher {
	return &SESDispatcher{
		SES:         sesClient,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
}

// Validate reports whether the dispatcher can send at all.
func (d *SESDispatcher) Validate() error {
	if d == nil || d.SES == nil || d.SenderEmail == "" {
		return ErrNotConfigured
	}
	return nil
}

// Send delivers a single HTML email.
func (d *SESDispatcher) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	from := d.SenderEmail
	if d.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", d.SenderName, d.SenderEmail)
	}
	charset := "UTF-8"

	input := &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: &subject, Charset: &charset},
				Body: &sestypes.Body{
					Html: &sestypes.Content{Data: &htmlBody, Charset: &charset},
				},
			},
		},
	}

	if _, err := d.SES.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
