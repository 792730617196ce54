// Package mail 出站邮件
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	from := m.From
	if from == "" {
		from = s.cfg.From
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)

	// DialAndSend 不接收 ctx，超时由 Dialer.Timeout 控制
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer 未配置 SMTP 时只记录日志（开发环境）
type LogMailer struct {
	L *zap.Logger
}

func (m LogMailer) Send(_ context.Context, msg Message) error {
	if m.L != nil {
		m.L.Info("mail (not sent)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Int("html_bytes", len(msg.HTML)))
	}
	return nil
}

var resetTmpl = template.Must(template.New("reset").Parse(`<div className="email" style="
    border: 1px solid black;
    padding: 20px;
    font-family: sans-serif;
    line-height: 2;
    font-size: 20px;
  ">
  <h2>Hello There!</h2>
  <p>Your Password Reset Token is here!
  <a href="{{.Link}}">Click Here to Reset</a></p>
  <p>😘, {{.Sender}}</p>
</div>`))

// ResetEmail 生成重置密码邮件正文，token 做 query 转义
func ResetEmail(frontendURL, token, sender string) (string, error) {
	var buf bytes.Buffer
	err := resetTmpl.Execute(&buf, struct {
		Link   template.URL
		Sender string
	}{
		Link:   template.URL(frontendURL + "/reset?resetToken=" + template.URLQueryEscaper(token)),
		Sender: sender,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
