package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/iqasport/referee-hub-sub000/config"
)

var inviteEmailTemplate = template.Must(template.New("invite").Parse(`<html>
<body>
  <p>Hello,</p>
  {{if .InitiatedByTournament}}
  <p>The organizers of <b>{{.TournamentName}}</b> have invited <b>{{.TeamName}}</b> to participate.</p>
  {{else}}
  <p><b>{{.TeamName}}</b> has requested to participate in <b>{{.TournamentName}}</b>.</p>
  {{end}}
  <p>Review the request here: <a href="{{.Link}}">{{.Link}}</a></p>
</body>
</html>`))

// EmailService delivers notifications over SMTP. It implements
// InviteNotifier; delivery failures are the caller's to log.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return nil
}

func (s *EmailService) NotifyInviteCreated(_ context.Context, recipients []string, teamName, tournamentName string, initiatedByTournament bool) error {
	subject := fmt.Sprintf("Participation request: %s / %s", teamName, tournamentName)
	data := struct {
		TeamName              string
		TournamentName        string
		InitiatedByTournament bool
		Link                  string
	}{
		TeamName:              teamName,
		TournamentName:        tournamentName,
		InitiatedByTournament: initiatedByTournament,
		Link:                  fmt.Sprintf("%s/invites", s.cfg.PublicURL),
	}

	var body bytes.Buffer
	if err := inviteEmailTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render invite email: %w", err)
	}

	for _, rcpt := range recipients {
		if err := s.SendEmail([]string{rcpt}, subject, body.String()); err != nil {
			return fmt.Errorf("send invite email to %s: %w", rcpt, err)
		}
	}
	return nil
}
