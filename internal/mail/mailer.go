package mail

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/xuj/lcforum/internal/config"
)

// Message 是一封待发送的纯文本邮件。
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer 是批量邮件发送的出口，通知服务通过它寻址外部传输层。
type Mailer interface {
	SendMass(messages []Message) error
}

// SMTPMailer 使用配置中的 SMTP 地址批量发送邮件，一次连接发送全部消息。
type SMTPMailer struct {
	cfg config.AppConfig
}

// NewSMTPMailer creates a Mailer backed by plain SMTP with optional STARTTLS.
func NewSMTPMailer(cfg config.AppConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendMass 将所有消息在同一个 SMTP 会话内依次投递。
// 任何一封失败都会中断并返回错误，由调用方决定如何上报。
func (m *SMTPMailer) SendMass(messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	cfg := m.cfg
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if cfg.SMTPTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
				return err
			}
		}
	}

	if cfg.SMTPUsername != "" {
		auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	for _, msg := range messages {
		if err := sendOne(c, msg); err != nil {
			return err
		}
	}

	return c.Quit()
}

func sendOne(c *smtp.Client, msg Message) error {
	if err := c.Mail(msg.From); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(render(msg))); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

func render(msg Message) string {
	headers := [][2]string{
		{"From", msg.From},
		{"To", strings.Join(msg.To, ", ")},
		{"Subject", encodeRFC2047(msg.Subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		b.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}

// encodeRFC2047 encodes a string for non-ASCII mail headers
func encodeRFC2047(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 128 {
			return fmt.Sprintf("=?UTF-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(s)))
		}
	}
	return s
}
