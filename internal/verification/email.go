package verification

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host       string `yaml:"host" env:"SMTP_HOST"`
	Port       int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username   string `yaml:"username" env:"SMTP_USER"`
	Password   string `yaml:"password" env:"SMTP_PASS"`
	From       string `yaml:"from" env:"SMTP_FROM"`
	ServerName string `yaml:"server_name" env:"SMTP_SERVER_NAME"`
}

func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

const emailSubject = "Код подтверждения"

const emailBodyTemplate = `Здравствуйте!

Ваш код подтверждения: %s

Если вы не запрашивали этот код, пожалуйста, проигнорируйте это сообщение.

С уважением,
Ваш бот`

// SMTPSender отправляет коды подтверждения письмом.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.ServerName != "" {
		d.TLSConfig = &tls.Config{
			ServerName: cfg.ServerName,
		}
	}

	return &SMTPSender{
		from:   cfg.From,
		dialer: d,
	}
}

func (s *SMTPSender) SendEmailCode(ctx context.Context, address, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", address)
	m.SetHeader("Subject", emailSubject)
	m.SetBody("text/plain", fmt.Sprintf(emailBodyTemplate, code))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
