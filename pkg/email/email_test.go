package email

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"leadgen-backend/config"
	"leadgen-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContactEscapesAndDefaults(t *testing.T) {
	msg, err := RenderContact(domain.ContactRecord{
		Name:    "Jo <script>",
		Email:   "jo@x.com",
		Message: "Hello there, checking in.",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Contact Form Submission from Jo <script>", msg.Subject)
	assert.Equal(t, "jo@x.com", msg.ReplyTo)
	assert.Contains(t, msg.HTML, "Jo &lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "<strong>Company:</strong> Not provided")
	assert.Contains(t, msg.HTML, "Hello there, checking in.")
}

func TestRenderBookCallDefaults(t *testing.T) {
	msg, err := RenderBookCall(domain.BookCallRecord{Name: "Ann", Email: "ann@x.com", PreferredDate: "2026-11-02"})
	require.NoError(t, err)

	assert.Equal(t, "New Call Booking Request from Ann", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Preferred Date:</strong> 2026-11-02")
	assert.Contains(t, msg.HTML, "<strong>Preferred Time:</strong> Not specified")
	assert.Contains(t, msg.HTML, "<strong>Notes:</strong> None")
}

func TestRenderOrderFieldOrder(t *testing.T) {
	msg, err := RenderOrder(domain.OrderRecord{
		Industry:     "Technology",
		Geography:    []string{"US", "UK"},
		CompanySizes: []string{"1-10"},
		Roles:        []string{"CEO"},
		TechFilters:  []string{},
		Volume:       100,
		ContactName:  "A",
		ContactEmail: "a@b.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Order Submission from A", msg.Subject)
	labels := []string{"Contact:", "Company:", "Industry:", "Geography:", "Company Sizes:", "Roles:", "Tech Filters:", "Volume:", "Deadline:"}
	last := -1
	for _, label := range labels {
		idx := strings.Index(msg.HTML, "<strong>"+label+"</strong>")
		require.Greater(t, idx, last, "label %s out of order", label)
		last = idx
	}
	assert.Contains(t, msg.HTML, "US, UK")
	assert.Contains(t, msg.HTML, "<strong>Volume:</strong> 100")
}

func TestSendWithoutConfigurationIsDisabled(t *testing.T) {
	svc := NewEmailService(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587"})
	assert.False(t, svc.IsConfigured())

	err := svc.NotifyContact(context.Background(), domain.ContactRecord{Name: "Jo", Email: "jo@x.com"})
	assert.ErrorIs(t, err, domain.ErrNotificationDisabled)
}

func TestSendFailsWhenServerUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	svc := NewEmailService(&config.Config{
		SMTPHost: host, SMTPPort: port, SMTPUsername: "u", SMTPPassword: "p",
		SMTPFromEmail: "noreply@company.com", NotificationEmailTo: "admin@company.com",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = svc.NotifyOrder(ctx, domain.OrderRecord{ContactName: "A", ContactEmail: "a@b.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotificationDisabled)
}

func TestBuildMIMEStripsHeaderInjection(t *testing.T) {
	svc := &EmailService{fromEmail: "noreply@company.com", toEmail: "admin@company.com"}
	raw := string(svc.buildMIME(&Message{
		Subject: "New Contact Form Submission from Eve\r\nBcc: victim@x.com",
		ReplyTo: "eve@x.com",
		HTML:    "<p>hi</p>",
	}))

	headers := raw[:strings.Index(raw, "\r\n\r\n")]
	for _, line := range strings.Split(headers, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), "injected header line %q", line)
	}
	assert.Contains(t, raw, "Reply-To: eve@x.com\r\n")
	assert.True(t, strings.HasSuffix(raw, "<p>hi</p>"))
}
