// Package mailer sends the order-confirmation email over SMTP. The transport
// is optional: when the SMTP settings are incomplete the mailer stays
// unconfigured and sending reports ErrNotConfigured.
package mailer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp transport not configured")

type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func New(host string, port int, user, pass, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) Configured() bool {
	return m.host != "" && m.port != 0 && m.user != "" && m.pass != ""
}

// SendOrderEmail mails the reference, the amount and the issued tracking
// numbers to the customer.
func (m *Mailer) SendOrderEmail(to, reference string, amountKobo int64, trackingNumbers []string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order received — %s", reference))
	msg.SetBody("text/html", orderEmailBody(reference, amountKobo, trackingNumbers))

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	dialer.SSL = m.port == 465

	return dialer.DialAndSend(msg)
}

func orderEmailBody(reference string, amountKobo int64, trackingNumbers []string) string {
	naira := strconv.FormatFloat(float64(amountKobo)/100, 'f', -1, 64)

	var b strings.Builder
	b.WriteString("<p>Thank you — your payment was successful.</p>")
	fmt.Fprintf(&b, "<p><strong>Reference:</strong> %s</p>", reference)
	fmt.Fprintf(&b, "<p><strong>Amount:</strong> ₦%s</p>", naira)
	b.WriteString("<p><strong>Tracking numbers (please keep this for tracking):</strong></p><ol>")
	for _, t := range trackingNumbers {
		fmt.Fprintf(&b, "<li>%s</li>", t)
	}
	b.WriteString("</ol>")
	b.WriteString(`<p>You can view and track your orders at <a href="/pages/orders.html">Your Orders</a>.</p>`)
	return b.String()
}
