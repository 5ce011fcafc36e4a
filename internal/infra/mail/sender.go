// Package mail delivers meal plans over SMTP. Messages carry an HTML body
// rendered from an embedded template plus a plain-text part with the raw
// plan, so the content survives clients that strip HTML.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

type EmailSender struct {
	host      string
	port      int
	user      string
	password  string
	fromEmail string
	fromName  string
	templates *template.Template
}

func NewEmailSender(host string, port int, user, password, fromEmail, fromName string) (*EmailSender, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &EmailSender{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
		templates: templates,
	}, nil
}

type freePlanData struct {
	Name         string
	Goal         string
	Plan         string
	PlanDays     int
	PremiumPrice int
	FromName     string
}

// SendFreePlan emails the free plan with the premium upsell block.
func (s *EmailSender) SendFreePlan(to, name, goal, plan string, planDays, premiumPrice int) error {
	data := freePlanData{
		Name:         displayName(name),
		Goal:         goal,
		Plan:         plan,
		PlanDays:     planDays,
		PremiumPrice: premiumPrice,
		FromName:     s.fromName,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "free_plan.html", data); err != nil {
		return fmt.Errorf("render free plan email: %w", err)
	}

	subject := fmt.Sprintf("Your %d-Day Meal Plan Is Ready! 🥗", planDays)
	return s.send(to, subject, body.String(), plan)
}

type premiumPlanData struct {
	Name         string
	Plan         string
	ShoppingList string
	FromName     string
	MemberSince  string
}

// SendPremiumPlan emails the weekly premium plan with its shopping list
// pulled out into its own section.
func (s *EmailSender) SendPremiumPlan(to, name, plan, shoppingList string, memberSince *time.Time) error {
	since := time.Now()
	if memberSince != nil {
		since = *memberSince
	}
	data := premiumPlanData{
		Name:         displayName(name),
		Plan:         plan,
		ShoppingList: shoppingList,
		FromName:     s.fromName,
		MemberSince:  since.Format("January 2006"),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "premium_plan.html", data); err != nil {
		return fmt.Errorf("render premium plan email: %w", err)
	}

	return s.send(to, "⭐ Your Weekly Premium Meal Plan", body.String(), plan)
}

func (s *EmailSender) send(to, subject, htmlBody, textBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromEmail, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
