package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSender_AlwaysSucceeds(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))
	ev := testEvent()

	require.NoError(t, sender.Send(context.Background(), ev))

	out := buf.String()
	assert.Contains(t, out, ev.RecipientID)
	assert.Contains(t, out, ev.OrderCode)
	assert.Contains(t, out, "approved")
}

func TestBuildMessage(t *testing.T) {
	ev := testEvent()

	msg := string(buildMessage("no-reply@traveldesk.local", "user-1@example.com", ev))

	assert.Contains(t, msg, "From: no-reply@traveldesk.local\r\n")
	assert.Contains(t, msg, "To: user-1@example.com\r\n")
	assert.Contains(t, msg, "Subject: Travel request ORD-001 is now approved\r\n")
	assert.Contains(t, msg, "Hello Maria Silva,")
	assert.Contains(t, msg, "Departure: 2026-09-10 08:30")
}

func TestSMTPSender_ResolveFailure(t *testing.T) {
	sender := NewSMTPSender("localhost:2525", "no-reply@traveldesk.local")
	sender.Resolve = func(string) (string, error) {
		return "", assert.AnError
	}

	err := sender.Send(context.Background(), testEvent())

	assert.ErrorIs(t, err, assert.AnError)
}
