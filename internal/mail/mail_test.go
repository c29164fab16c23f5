package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasika-cms/internal/models"
)

const business = "Fasika Preschool and International Childcare Center"

type fakeBindingClient struct {
	dapr.Client
	requests []*dapr.InvokeBindingRequest
	err      error
}

func (f *fakeBindingClient) InvokeOutputBinding(ctx context.Context, in *dapr.InvokeBindingRequest) error {
	f.requests = append(f.requests, in)
	return f.err
}

func TestWelcomeMessage(t *testing.T) {
	tmpl, err := NewTemplates(business)
	require.NoError(t, err)

	msg, err := tmpl.WelcomeMessage("parent@example.com")
	require.NoError(t, err)

	assert.Equal(t, "parent@example.com", msg.To)
	assert.Equal(t, "Welcome to Fasika Preschool and International Childcare Center!", msg.Subject)
	assert.Contains(t, msg.TextBody, "subscribing to the "+business+" newsletter")
	assert.Contains(t, msg.HTMLBody, "<h1>Welcome to "+business+"!</h1>")
	assert.Contains(t, msg.HTMLBody, "Best regards")
}

func TestTourTemplatesEscapeHTML(t *testing.T) {
	tmpl, err := NewTemplates(business)
	require.NoError(t, err)

	req := models.NewTourRequest(&models.TourRequestData{
		Name: "<b>Abebe</b>", Email: "abebe@example.com", Phone: "0911000000",
		Time: "Monday 9am", Programme: "ft", Age: 4, Source: "friend", Center: "bole daycare",
	})

	ack, err := tmpl.TourAcknowledgement(req)
	require.NoError(t, err)
	assert.Equal(t, "abebe@example.com", ack.To)
	assert.Contains(t, ack.TextBody, "Dear <b>Abebe</b>")
	assert.Contains(t, ack.HTMLBody, "Dear &lt;b&gt;Abebe&lt;/b&gt;")

	notice, err := tmpl.TourNotification("office@example.com", req)
	require.NoError(t, err)
	assert.Equal(t, "office@example.com", notice.To)
	assert.Equal(t, "abebe@example.com", notice.ReplyTo)
	assert.Contains(t, notice.TextBody, "No message provided")
}

func TestContactNotification(t *testing.T) {
	tmpl, err := NewTemplates(business)
	require.NoError(t, err)

	inquiry := models.NewContactInquiry(&models.ContactInquiryData{
		Name: "Sara", Email: "sara@example.com", Phone: "0911000001", FindUs: "Facebook",
	})
	msg, err := tmpl.ContactNotification("office@example.com", inquiry)
	require.NoError(t, err)
	assert.Equal(t, "New contact inquiry from Sara", msg.Subject)
	assert.Contains(t, msg.TextBody, "Found us: Facebook")
}

func TestDaprBindingSender(t *testing.T) {
	client := &fakeBindingClient{}
	sender := NewDaprBindingSender(client, "smtp", "noreply@example.com", "office@example.com")

	res, err := sender.Send(context.Background(), &Message{
		To: "parent@example.com", Subject: "Hi", TextBody: "plain", HTMLBody: "<p>html</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "dapr:smtp", res.Provider)
	assert.NotEmpty(t, res.MessageID)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "smtp", req.Name)
	assert.Equal(t, "create", req.Operation)
	assert.Equal(t, "<p>html</p>", string(req.Data))
	assert.Equal(t, "parent@example.com", req.Metadata["emailTo"])
	assert.Equal(t, "noreply@example.com", req.Metadata["emailFrom"])
	assert.Equal(t, "office@example.com", req.Metadata["emailReplyTo"])
}

func TestDaprBindingSenderFailure(t *testing.T) {
	client := &fakeBindingClient{err: errors.New("binding unavailable")}
	sender := NewDaprBindingSender(client, "smtp", "", "")

	_, err := sender.Send(context.Background(), &Message{To: "parent@example.com", TextBody: "x"})
	assert.ErrorContains(t, err, "binding unavailable")
}

func TestSendersRejectMissingRecipient(t *testing.T) {
	senders := map[string]Sender{
		"smtp": NewSMTPSender(SMTPConfig{Host: "localhost", Port: 465}),
		"dapr": NewDaprBindingSender(&fakeBindingClient{}, "smtp", "", ""),
		"log":  NewLogSender(logrus.New()),
	}
	for name, sender := range senders {
		t.Run(name, func(t *testing.T) {
			_, err := sender.Send(context.Background(), &Message{Subject: "no one"})
			assert.ErrorIs(t, err, ErrNoRecipient)
		})
	}
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	res, err := NewLogSender(logger).Send(context.Background(), &Message{To: "parent@example.com", Subject: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "log", res.Provider)
	assert.Contains(t, buf.String(), "parent@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLogSender(logger).Send(ctx, &Message{To: "parent@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com", ReplyTo: "office@example.com"})

	m, err := sender.buildMsg(&Message{To: "parent@example.com", Subject: "Hi", TextBody: "plain", HTMLBody: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"<parent@example.com>"}, m.GetToString())
	assert.NotEmpty(t, m.GetMessageID())

	_, err = sender.buildMsg(&Message{To: "not an address"})
	assert.Error(t, err)
}
