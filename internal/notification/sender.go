package notification

import (
	"context"
	"fmt"
	"net/http"

	"school-management-api/internal/config"
	"school-management-api/internal/logger"
	"school-management-api/internal/model"
	"school-management-api/pkg/errors"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// Sender delivers one email. Errors wrapped in errors.RetryableError are
// worth another attempt.
type Sender interface {
	Send(ctx context.Context, job model.EmailJob) error
}

func NewSender(cfg *config.Config) (Sender, error) {
	switch cfg.Email.Provider {
	case "sendgrid":
		if cfg.Email.SendgridAPIKey == "" {
			return nil, fmt.Errorf("email provider sendgrid requires an API key")
		}
		return NewSendgridSender(cfg), nil
	case "console", "":
		return NewConsoleSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}

type SendgridSender struct {
	key  string
	host string
	from *sgmail.Email
	log  zerolog.Logger
}

func NewSendgridSender(cfg *config.Config) *SendgridSender {
	return &SendgridSender{
		key:  cfg.Email.SendgridAPIKey,
		host: host,
		from: sgmail.NewEmail(cfg.Email.FromName, cfg.Email.FromAddress),
		log:  logger.Get(),
	}
}

func (s *SendgridSender) prepare(job model.EmailJob) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = job.Subject
	p.AddTos(sgmail.NewEmail("", job.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", job.Text))
	if job.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", job.HTML))
	}
	return m
}

func (s *SendgridSender) Send(ctx context.Context, job model.EmailJob) error {
	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(job))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return errors.NewRetryableError(err, "sendgrid request failed")
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError:
		return errors.NewRetryableError(fmt.Errorf("status %d: %s", res.StatusCode, res.Body), "sendgrid unavailable")
	case res.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("sendgrid rejected email: status %d: %s", res.StatusCode, res.Body)
	}

	s.log.Debug().Str("job_id", job.ID).Int("status", res.StatusCode).Msg("Email accepted by SendGrid")
	return nil
}

// ConsoleSender writes emails to the log instead of delivering them.
type ConsoleSender struct {
	log zerolog.Logger
}

func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{log: logger.Get()}
}

func (s *ConsoleSender) Send(ctx context.Context, job model.EmailJob) error {
	s.log.Info().
		Str("job_id", job.ID).
		Str("to", job.To).
		Str("subject", job.Subject).
		Str("text", job.Text).
		Msg("Email")
	return nil
}
