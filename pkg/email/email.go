package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type SubscriptionEmailData struct {
	Name       string
	Tier       string
	QuotaMonth int
}

type PaymentReceivedData struct {
	Name string
	Tier string
	Date time.Time
}

type SubscriptionCancelledData struct {
	Name string
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "PetPhoto <noreply@petphoto.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to PetPhoto! 🐾", "welcome.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(email, name, tier string, quotaMonth int) error {
	data := SubscriptionEmailData{
		Name:       name,
		Tier:       tier,
		QuotaMonth: quotaMonth,
	}
	return s.sendTemplateEmail(email, "Your PetPhoto subscription is active 🎉", "subscription_started.html", data)
}

func (s *EmailService) SendPaymentReceivedEmail(email, name, tier string) error {
	data := PaymentReceivedData{
		Name: name,
		Tier: tier,
		Date: time.Now(),
	}
	return s.sendTemplateEmail(email, "Payment received, thank you!", "payment_received.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, name string) error {
	data := SubscriptionCancelledData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Your PetPhoto subscription was cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(email, name, tier string, expiresAt time.Time, daysLeft int) error {
	data := struct {
		Name      string
		Tier      string
		ExpiresAt time.Time
		DaysLeft  int
	}{name, tier, expiresAt, daysLeft}
	subject := fmt.Sprintf("Your PetPhoto subscription expires in %d days", daysLeft)
	return s.sendTemplateEmail(email, subject, "expiry_warning.html", data)
}
