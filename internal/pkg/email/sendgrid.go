package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridSender sends mail through the SendGrid v3 API.
type SendGridSender struct {
	key    string
	host   string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGridSender creates a new SendGridSender
func NewSendGridSender(config Config, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		key:    config.SendGridKey,
		host:   sendgridHost,
		from:   sgmail.NewEmail(config.FromName, config.FromEmail),
		logger: logger,
	}
}

func (s *SendGridSender) prepare(msg Message, attachments []loadedAttachment) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))

	for _, at := range attachments {
		m.AddAttachment(&sgmail.Attachment{
			Content:     at.base64(),
			Type:        at.ContentType,
			Filename:    at.Filename,
			Disposition: "attachment",
		})
	}
	return m
}

// Send posts msg to SendGrid. Any status of 400 or above is an error.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	attachments, err := loadAttachments(msg.Attachments)
	if err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg, attachments))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Error().Err(err).Msg("Error sending email via sendgrid")
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("Sendgrid rejected email")
		return fmt.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}
