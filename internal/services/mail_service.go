package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: Missing SMTP environment variables.")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: ArenaX <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) SendWelcomeEmail(email, username string) {
	body := fmt.Sprintf(`
		<h2>Welcome to ArenaX, %s!</h2>
		<p>Your account is ready. Pick a debate, choose a side and make your case.</p>
		<p>Remember: once you join, your first argument is due within 5 minutes.</p>`, username)
	s.sendAsync([]string{email}, "Welcome to ArenaX", body)
}

func (s *MailService) SendDebateResultEmail(email, debateTitle, outcome string) {
	body := fmt.Sprintf(`
		<h2>A debate you joined has concluded</h2>
		<p><strong>%s</strong></p>
		<p>%s</p>
		<p>Log in to read the full summary and the top arguments.</p>`, debateTitle, outcome)
	s.sendAsync([]string{email}, "🏁 Debate concluded: "+debateTitle, body)
}
