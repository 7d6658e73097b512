package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// maxErrorLen caps the error detail carried in Result.Message; the prefix
// naming the failure is not counted.
const maxErrorLen = 100

// Result reports the outcome of one dispatch. Delivered lists the recipients
// accepted before the first failure.
type Result struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Recipients  []string  `json:"recipients,omitempty"`
	Delivered   []string  `json:"delivered,omitempty"`
	FailedFor   string    `json:"failed_for,omitempty"`
	LocationIDs []uint    `json:"location_ids,omitempty"`
}

type Sender interface {
	SendReportEmail(ctx context.Context, recipients []string, subject, htmlBody, attachmentPath string, locationIDs []uint) Result
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseSSL   bool
	UseTLS   bool
	Timeout  time.Duration
	Logger   zerolog.Logger
}

type Mailer struct {
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
	strip  *bluemonday.Policy
}

func NewMailer(opts Options) *Mailer {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.From == "" {
		opts.From = opts.Username
	}
	return &Mailer{opts: opts, logger: opts.Logger, now: time.Now, strip: bluemonday.StrictPolicy()}
}

func (m *Mailer) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.opts.Port),
		mail.WithTimeout(m.opts.Timeout),
	}

	switch {
	case m.opts.UseSSL:
		opts = append(opts, mail.WithSSL())
	case m.opts.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if m.opts.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.opts.Username),
			mail.WithPassword(m.opts.Password),
		)
	}

	return opts
}

// SendReportEmail delivers one message per recipient over a single SMTP
// session and stops at the first failure. It never returns an error; the
// outcome is carried by Result.
func (m *Mailer) SendReportEmail(ctx context.Context, recipients []string, subject, htmlBody, attachmentPath string, locationIDs []uint) (result Result) {
	result = Result{LocationIDs: locationIDs}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("Mailer panicked")
			result.Success = false
			result.Message = "Erro ao enviar email: " + truncate(fmt.Sprint(r))
		}
		result.Timestamp = m.now()
	}()

	if len(recipients) == 0 {
		result.Message = "Nenhum destinatario configurado"
		return result
	}

	attach := attachmentPath != ""
	if attach {
		if _, err := os.Stat(attachmentPath); err != nil {
			m.logger.Warn().Err(err).Str("path", attachmentPath).Msg("Attachment not found, sending without it")
			attach = false
		}
	}

	client, err := mail.NewClient(m.opts.Host, m.clientOptions()...)
	if err != nil {
		result.Message = "Erro ao enviar email: " + truncate(err.Error())
		return result
	}

	m.logger.Info().
		Str("host", m.opts.Host).
		Int("port", m.opts.Port).
		Bool("ssl", m.opts.UseSSL).
		Bool("starttls", m.opts.UseTLS).
		Msg("Connecting to SMTP server")

	dialCtx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		m.logger.Error().Err(err).Msg("SMTP connection failed")
		result.Message = classify(err)
		return result
	}
	defer client.Close()

	for _, recipient := range recipients {
		msg, err := m.compose(recipient, subject, htmlBody, attachmentPath, attach)
		if err == nil {
			err = client.Send(msg)
		}
		if err != nil {
			m.logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send email")
			result.FailedFor = recipient
			if isTimeout(err) {
				result.Message = classify(err)
			} else {
				result.Message = fmt.Sprintf("Erro ao enviar para %s: %s", recipient, truncate(err.Error()))
			}
			return result
		}
		result.Delivered = append(result.Delivered, recipient)
		m.logger.Info().Str("recipient", recipient).Msg("Email sent")
	}

	result.Success = true
	result.Recipients = recipients
	result.Message = fmt.Sprintf("Email enviado com sucesso para %d destinatario(s)", len(recipients))
	m.logger.Info().Str("subject", subject).Int("recipients", len(recipients)).Msg("Report email dispatched")
	return result
}

func (m *Mailer) compose(recipient, subject, htmlBody, attachmentPath string, attach bool) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.opts.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, m.plainText(htmlBody))
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	if attach {
		msg.AttachFile(attachmentPath)
	}
	return msg, nil
}

// plainText renders the report body for clients that do not display HTML.
func (m *Mailer) plainText(htmlBody string) string {
	text := html.UnescapeString(m.strip.Sanitize(htmlBody))
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func classify(err error) string {
	switch {
	case isTimeout(err):
		return "TIMEOUT: Servidor SMTP nao respondeu em tempo"
	case isAuth(err):
		return "Erro de autenticacao: Verifique email e senha"
	default:
		return "Erro ao enviar email: " + truncate(err.Error())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isAuth(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && (tpErr.Code == 535 || tpErr.Code == 534 || tpErr.Code == 530) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "auth")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxErrorLen {
		return s
	}
	return string(r[:maxErrorLen])
}
