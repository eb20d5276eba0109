package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"leadgen-backend/internal/domain"
)

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>{{.Title}}</h2></div>
        <div class="content">{{template "body" .Data}}</div>
    </div>
</body>
</html>{{end}}`

const contactBody = `{{define "body"}}
            <p><strong>Name:</strong> {{.Name}}</p>
            <p><strong>Email:</strong> {{.Email}}</p>
            <p><strong>Company:</strong> {{or .Company "Not provided"}}</p>
            <p><strong>Message:</strong></p>
            <div class="message-box">{{.Message}}</div>
{{end}}`

const bookCallBody = `{{define "body"}}
            <p><strong>Name:</strong> {{.Name}}</p>
            <p><strong>Email:</strong> {{.Email}}</p>
            <p><strong>Company:</strong> {{or .Company "Not provided"}}</p>
            <p><strong>Preferred Date:</strong> {{or .PreferredDate "Not specified"}}</p>
            <p><strong>Preferred Time:</strong> {{or .PreferredTime "Not specified"}}</p>
            <p><strong>Notes:</strong> {{or .Notes "None"}}</p>
{{end}}`

const orderBody = `{{define "body"}}
            <p><strong>Contact:</strong> {{.ContactName}} ({{.ContactEmail}})</p>
            <p><strong>Company:</strong> {{or .Company "Not provided"}}</p>
            <p><strong>Industry:</strong> {{.Industry}}</p>
            <p><strong>Geography:</strong> {{join .Geography}}</p>
            <p><strong>Company Sizes:</strong> {{join .CompanySizes}}</p>
            <p><strong>Roles:</strong> {{join .Roles}}</p>
            <p><strong>Tech Filters:</strong> {{join .TechFilters}}</p>
            <p><strong>Volume:</strong> {{.Volume}}</p>
            <p><strong>Deadline:</strong> {{or .Deadline "Not specified"}}</p>
{{end}}`

var templates = map[domain.Kind]*template.Template{
	domain.KindContact:  mustParse("contact", contactBody),
	domain.KindBookCall: mustParse("book-call", bookCallBody),
	domain.KindOrder:    mustParse("order", orderBody),
}

func mustParse(name, body string) *template.Template {
	funcs := template.FuncMap{
		"join": func(items []string) string { return strings.Join(items, ", ") },
	}
	return template.Must(template.Must(template.New(name).Funcs(funcs).Parse(layoutTemplate)).Parse(body))
}

type layoutData struct {
	Title string
	Data  any
}

func render(kind domain.Kind, title string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates[kind].ExecuteTemplate(&body, "layout", layoutData{Title: title, Data: data}); err != nil {
		return "", fmt.Errorf("failed to execute %s email template: %w", kind, err)
	}
	return body.String(), nil
}

// RenderContact builds the notification for a contact form submission
func RenderContact(rec domain.ContactRecord) (*Message, error) {
	html, err := render(domain.KindContact, "New Contact Form Submission", rec)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("New Contact Form Submission from %s", rec.Name),
		ReplyTo: rec.Email,
		HTML:    html,
	}, nil
}

// RenderBookCall builds the notification for a call booking request
func RenderBookCall(rec domain.BookCallRecord) (*Message, error) {
	html, err := render(domain.KindBookCall, "New Call Booking Request", rec)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("New Call Booking Request from %s", rec.Name),
		ReplyTo: rec.Email,
		HTML:    html,
	}, nil
}

// RenderOrder builds the notification for an order submission
func RenderOrder(rec domain.OrderRecord) (*Message, error) {
	html, err := render(domain.KindOrder, "New Order Submission", rec)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("New Order Submission from %s", rec.ContactName),
		ReplyTo: rec.ContactEmail,
		HTML:    html,
	}, nil
}
