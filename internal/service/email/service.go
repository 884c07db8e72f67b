package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error
	SendNewClaimEmail(ctx context.Context, toEmail, recipientName, claimantEmail, itemTitle string, itemID uuid.UUID) error
	SendNewMessageEmail(ctx context.Context, toEmail, recipientName, senderName, itemTitle, preview string, itemID uuid.UUID) error
}

type service struct {
	client *resend.Client
	config *config.Config
	log    *zap.SugaredLogger
}

func NewService(cfg *config.Config, log *zap.SugaredLogger) Service {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &service{
		client: client,
		config: cfg,
		log:    log,
	}
}

func render(templateName string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return "", fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	html, err := render(templateName, data)
	if err != nil {
		return err
	}

	if s.client == nil {
		s.log.Debugw("email delivery disabled, skipping", "to", toEmail, "subject", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Campus Lost & Found <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *service) itemLink(itemID uuid.UUID) string {
	return fmt.Sprintf("https://%s/items/%s", s.config.Domain, itemID)
}

func (s *service) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	subject := i18n.Translate(s.config.DefaultLocale, "EMAIL_RESET_SUBJECT")
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: subject,
		Name:  fullName,
		Link:  fmt.Sprintf("https://%s/reset-password?token=%s", s.config.Domain, resetToken),
	}
	return s.sendEmail(toEmail, subject, "reset_password.html", data)
}

func (s *service) SendNewClaimEmail(ctx context.Context, toEmail, recipientName, claimantEmail, itemTitle string, itemID uuid.UUID) error {
	subject := i18n.Format(s.config.DefaultLocale, "EMAIL_CLAIM_SUBJECT", map[string]string{"item": itemTitle})
	data := struct {
		Title         string
		Name          string
		ClaimantEmail string
		ItemTitle     string
		Link          string
	}{
		Title:         subject,
		Name:          recipientName,
		ClaimantEmail: claimantEmail,
		ItemTitle:     itemTitle,
		Link:          s.itemLink(itemID),
	}
	return s.sendEmail(toEmail, subject, "new_claim.html", data)
}

func (s *service) SendNewMessageEmail(ctx context.Context, toEmail, recipientName, senderName, itemTitle, preview string, itemID uuid.UUID) error {
	subject := i18n.Format(s.config.DefaultLocale, "EMAIL_MESSAGE_SUBJECT", map[string]string{"item": itemTitle})
	data := struct {
		Title      string
		Name       string
		SenderName string
		ItemTitle  string
		Preview    string
		Link       string
	}{
		Title:      subject,
		Name:       recipientName,
		SenderName: senderName,
		ItemTitle:  itemTitle,
		Preview:    preview,
		Link:       s.itemLink(itemID) + "#messages",
	}
	return s.sendEmail(toEmail, subject, "new_message.html", data)
}
