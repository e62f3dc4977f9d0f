// pkg/email/email.go
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
type PackagePurchasedData struct {
	FullName    string
	PackageName string
	Amount      int64
	Currency    string
	Year        int
}

type PaymentFailedData struct {
	FullName        string
	TransactionCode string
	GatewayCode     string
	Year            int
}

type BoostActivatedData struct {
	FullName     string
	ListingTitle string
	BoostDays    int
	EndDate      time.Time
	Year         int
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
		from:      "EstatePort <noreply@estateport.vn>",
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

	client := &http.Client{Timeout: 15 * time.Second}
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
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendPackagePurchasedEmail(email, fullName, packageName string, amount int64, currency string) error {
	data := PackagePurchasedData{
		FullName:    fullName,
		PackageName: packageName,
		Amount:      amount,
		Currency:    currency,
		Year:        time.Now().Year(),
	}
	return s.sendTemplateEmail(email, "Your package is active! 🎉", "package_purchased.html", data)
}

func (s *EmailService) SendPaymentFailedEmail(email, fullName, transactionCode, gatewayCode string) error {
	data := PaymentFailedData{
		FullName:        fullName,
		TransactionCode: transactionCode,
		GatewayCode:     gatewayCode,
		Year:            time.Now().Year(),
	}
	return s.sendTemplateEmail(email, "Payment could not be completed", "payment_failed.html", data)
}

func (s *EmailService) SendBoostActivatedEmail(email, fullName, listingTitle string, boostDays int, endDate time.Time) error {
	data := BoostActivatedData{
		FullName:     fullName,
		ListingTitle: listingTitle,
		BoostDays:    boostDays,
		EndDate:      endDate,
		Year:         time.Now().Year(),
	}
	return s.sendTemplateEmail(email, "Your listing is now boosted! 🚀", "boost_activated.html", data)
}
