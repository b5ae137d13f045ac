package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// Providers understood by NewSender.
const (
	ProviderConsole  = "console"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// Sender delivers a message. Implementations must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Attachment is a file on disk sent along with a message.
type Attachment struct {
	Path string
}

// Message is a plain text email with optional file attachments.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Config holds the settings for every provider.
type Config struct {
	Provider    string
	Host        string
	Port        int
	Username    string
	Password    string
	UseTLS      bool
	FromName    string
	FromEmail   string
	SendGridKey string
}

// NewSender picks the sender for the configured provider. SMTP without
// credentials falls back to the console sender so development setups
// still work.
func NewSender(cfg Config, logger zerolog.Logger) (Sender, error) {
	switch cfg.Provider {
	case ProviderSMTP:
		if cfg.Username == "" || cfg.Password == "" {
			logger.Warn().Msg("SMTP credentials not configured - emails will be logged, not sent.")
			return NewConsoleSender(logger), nil
		}
		return NewSMTPSender(cfg, logger), nil
	case ProviderSendGrid:
		if cfg.SendGridKey == "" {
			return nil, fmt.Errorf("sendgrid api key is required")
		}
		return NewSendGridSender(cfg, logger), nil
	case ProviderConsole, "":
		return NewConsoleSender(logger), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}

// loadedAttachment is an attachment read into memory.
type loadedAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

func (a loadedAttachment) base64() string {
	return base64.StdEncoding.EncodeToString(a.Content)
}

func loadAttachments(atts []Attachment) ([]loadedAttachment, error) {
	loaded := make([]loadedAttachment, 0, len(atts))
	for _, at := range atts {
		content, err := os.ReadFile(at.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", at.Path, err)
		}
		loaded = append(loaded, loadedAttachment{
			Filename:    filepath.Base(at.Path),
			ContentType: mimetype.Detect(content).String(),
			Content:     content,
		})
	}
	return loaded, nil
}
