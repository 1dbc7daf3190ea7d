package service

import (
	"time"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/util/common"

	"github.com/go-resty/resty/v2"
)

// Sender delivers one mail message. Implemented by MailService; tests stub it.
type Sender interface {
	Send(to, subject, html string) error
}

// MailService sends mail through the Mailgun HTTP API.
type MailService struct {
	client *resty.Client
}

func NewMailService() *MailService {
	return &MailService{
		client: resty.New().
			SetBaseURL("https://api.mailgun.net/v3").
			SetTimeout(10 * time.Second),
	}
}

func (s *MailService) Send(to, subject, html string) error {
	domain := config.GetMailgunDomain()
	apiKey := config.GetMailgunAPIKey()
	if domain == "" || apiKey == "" {
		return common.NewError("mailgun is not configured")
	}

	resp, err := s.client.R().
		SetBasicAuth("api", apiKey).
		SetFormData(map[string]string{
			"from":    config.GetMailFrom(),
			"to":      to,
			"subject": subject,
			"html":    html,
		}).
		Post("/" + domain + "/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return common.NewErrorf("mailgun responded %s", resp.Status())
	}
	return nil
}
