package transports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruxstack/find-my-rep-go/internal/config"
)

type mockMailer struct {
	err     error
	to      string
	subject string
	body    string
	headers []string
	calls   int
}

func (m *mockMailer) Mail(ctx context.Context, to, subject, body string, headers []string) error {
	m.calls++
	m.to, m.subject, m.body, m.headers = to, subject, body, headers
	return m.err
}

func countPrefix(headers []string, prefix string) (int, string) {
	n, last := 0, ""
	for _, h := range headers {
		if strings.HasPrefix(strings.ToLower(h), strings.ToLower(prefix)) {
			n++
			last = h
		}
	}
	return n, last
}

func TestBuildHeaders(t *testing.T) {
	t.Run("adds reply-to and from", func(t *testing.T) {
		got := BuildHeaders("me@example.com", []string{"X-Custom: 1"})

		n, h := countPrefix(got, "Reply-To:")
		assert.Equal(t, 1, n)
		assert.Equal(t, "Reply-To: me@example.com", h)

		n, h = countPrefix(got, "From:")
		assert.Equal(t, 1, n)
		assert.Equal(t, "From: me@example.com", h)

		assert.Equal(t, "X-Custom: 1", got[0])
	})

	t.Run("keeps caller reply-to", func(t *testing.T) {
		got := BuildHeaders("me@example.com", []string{"Reply-To: foo@bar"})

		n, h := countPrefix(got, "Reply-To:")
		assert.Equal(t, 1, n)
		assert.Equal(t, "Reply-To: foo@bar", h)
	})

	t.Run("reply-to match is case-insensitive", func(t *testing.T) {
		got := BuildHeaders("me@example.com", []string{"reply-TO: foo@bar"})

		n, _ := countPrefix(got, "reply-to:")
		assert.Equal(t, 1, n)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := make([]string, 1, 4)
		in[0] = "X-Custom: 1"
		_ = BuildHeaders("me@example.com", in)

		assert.Equal(t, []string{"X-Custom: 1"}, in)
		assert.Equal(t, "", in[:2][1])
	})
}

func TestSMTPTransport_Send(t *testing.T) {
	m := &mockMailer{}
	tr := NewSMTPTransport(m, "X-Custom: 1")

	result := tr.Send(context.Background(), "me@example.com", "rep@example.com", "Letter from constituent", "Dear Rep")

	require.True(t, result.Success)
	assert.Equal(t, "rep@example.com", m.to)
	assert.Equal(t, "Letter from constituent", m.subject)
	assert.Equal(t, "Dear Rep", m.body)
	assert.Equal(t, []string{"X-Custom: 1", "Reply-To: me@example.com", "From: me@example.com"}, m.headers)
	assert.Equal(t, "smtp", tr.Name())
}

func TestSMTPTransport_MailerFailure(t *testing.T) {
	m := &mockMailer{err: errors.New("connection refused")}
	tr := NewSMTPTransport(m)

	result := tr.Send(context.Background(), "me@example.com", "rep@example.com", "s", "b")

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to send email via SMTP.", result.Message)
	assert.Equal(t, 1, m.calls)
}

func TestNewGomailMessage(t *testing.T) {
	msg, err := NewGomailMessage("rep@example.com", "Subject", "Body", []string{
		"X-Custom: 1",
		"Reply-To: me@example.com",
		"From: me@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"rep@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Subject"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"1"}, msg.GetHeader("X-Custom"))
	assert.Equal(t, []string{"me@example.com"}, msg.GetHeader("Reply-To"))
	assert.Equal(t, []string{"me@example.com"}, msg.GetHeader("From"))

	_, err = NewGomailMessage("rep@example.com", "Subject", "Body", []string{"no colon"})
	assert.Error(t, err)
}

func TestNewGomailMailer_TLS(t *testing.T) {
	t.Run("verifies by default", func(t *testing.T) {
		m := NewGomailMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 25})
		assert.Nil(t, m.Dialer.TLSConfig)
	})

	t.Run("skip verify for self-signed local mta", func(t *testing.T) {
		m := NewGomailMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 25, SMTPTLSSkipVerify: true})
		require.NotNil(t, m.Dialer.TLSConfig)
		assert.True(t, m.Dialer.TLSConfig.InsecureSkipVerify)
		assert.Equal(t, "localhost", m.Dialer.TLSConfig.ServerName)
	})
}
