package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/Kariqs/fishing-store-api/models"
)

var orderConfirmationTemplate = template.Must(template.New("order").Parse(`<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thanks for your order. Your reference is <strong>{{.Order.Reference}}</strong>.</p>
  <table>
    <tr><th>Product</th><th>Qty</th><th>Price</th></tr>
    {{range .Order.Items}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>
    {{end}}
  </table>
  <p>Total: <strong>{{.Order.TotalAmount}}</strong></p>
  <p>We will ship to: {{.Order.Address}}</p>
</body>
</html>`))

type OrderEmailData struct {
	Name  string
	Order models.OrderResponse
}

// MailEnabled reports whether SMTP settings are present.
func MailEnabled() bool {
	return os.Getenv("SMTP_ADDRESS") != "" && os.Getenv("FROM_EMAIL") != ""
}

func renderOrderEmail(subject string, data OrderEmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		subject,
		body.String(),
	)
	return []byte(message), nil
}

// SendOrderConfirmation mails the order summary to the customer.
func SendOrderConfirmation(emailTo string, data OrderEmailData) error {
	message, err := renderOrderEmail("Order "+data.Order.Reference+" received", data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
