package email

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EscapesUserInput(t *testing.T) {
	html, err := Render(TemplateItemInterest, TemplateData{
		"SellerName":  "Bob",
		"WisherName":  "<script>alert(1)</script>",
		"WisherEmail": "ann@example.com",
		"ItemTitle":   "Calculus textbook",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Calculus textbook")
	assert.NotContains(t, html, "<script>")
}

func TestGomailProvider_BuildMessage(t *testing.T) {
	p := NewGomailProvider(SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@example.com", FromName: "Coursemate"})
	assert.True(t, p.Enabled())

	m := p.buildMessage(&Email{
		To:       []string{"seller@example.com"},
		ReplyTo:  "ann@example.com",
		Subject:  "Interest in your item",
		Body:     "plain",
		HTMLBody: "<p>html</p>",
	})

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "To: seller@example.com")
	assert.Contains(t, raw, "Reply-To: ann@example.com")
	assert.True(t, strings.Contains(raw, "text/html"))
}

func TestGomailProvider_NoRecipients(t *testing.T) {
	p := NewGomailProvider(SMTPConfig{Host: "smtp.example.com", FromEmail: "noreply@example.com"})
	assert.Error(t, p.Send(context.Background(), &Email{Subject: "x"}))
}

func TestNoopProvider(t *testing.T) {
	var p Provider = NoopProvider{}
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Send(context.Background(), &Email{}))
}
