package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	texttmpl "text/template"

	"fasika-cms/internal/models"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

type templateData struct {
	Business string
	Tour     *models.TourRequest
	Contact  *models.ContactInquiry
}

// Templates renders the fixed set of outgoing messages.
type Templates struct {
	business string
	text     *texttmpl.Template
	html     *htmltmpl.Template
}

func NewTemplates(business string) (*Templates, error) {
	text, err := texttmpl.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("mail.NewTemplates(text): %w", err)
	}
	html, err := htmltmpl.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail.NewTemplates(html): %w", err)
	}
	return &Templates{business: business, text: text, html: html}, nil
}

func (t *Templates) render(name string, data templateData) (string, string, error) {
	data.Business = t.business

	var textBuf, htmlBuf bytes.Buffer
	if err := t.text.ExecuteTemplate(&textBuf, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("rendering %s.txt: %w", name, err)
	}
	if err := t.html.ExecuteTemplate(&htmlBuf, name+".html", data); err != nil {
		return "", "", fmt.Errorf("rendering %s.html: %w", name, err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}

func (t *Templates) build(to, replyTo, subject, name string, data templateData) (*Message, error) {
	text, html, err := t.render(name, data)
	if err != nil {
		return nil, err
	}
	return &Message{To: to, ReplyTo: replyTo, Subject: subject, TextBody: text, HTMLBody: html}, nil
}

// WelcomeMessage is sent to a new newsletter subscriber.
func (t *Templates) WelcomeMessage(to string) (*Message, error) {
	return t.build(to, "", "Welcome to "+t.business+"!", "welcome", templateData{})
}

func (t *Templates) TourAcknowledgement(req *models.TourRequest) (*Message, error) {
	return t.build(req.Email, "", "We received your tour request", "tour_ack", templateData{Tour: req})
}

// TourNotification tells the office about a new tour request; replies go to the parent.
func (t *Templates) TourNotification(admin string, req *models.TourRequest) (*Message, error) {
	subject := fmt.Sprintf("New tour request from %s", req.Name)
	return t.build(admin, req.Email, subject, "tour_notify", templateData{Tour: req})
}

func (t *Templates) ContactNotification(admin string, inquiry *models.ContactInquiry) (*Message, error) {
	subject := fmt.Sprintf("New contact inquiry from %s", inquiry.Name)
	return t.build(admin, inquiry.Email, subject, "contact_notify", templateData{Contact: inquiry})
}
