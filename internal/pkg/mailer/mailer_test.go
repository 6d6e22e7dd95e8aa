package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bufferCloser struct {
	bytes.Buffer
}

func (b *bufferCloser) Close() error { return nil }

type fakeClient struct {
	from    string
	to      string
	data    bufferCloser
	rcptErr error
	quit    bool
	closed  bool
}

func (c *fakeClient) Mail(from string) error        { c.from = from; return nil }
func (c *fakeClient) Rcpt(to string) error          { c.to = to; return c.rcptErr }
func (c *fakeClient) Data() (io.WriteCloser, error) { return &c.data, nil }
func (c *fakeClient) Quit() error                   { c.quit = true; return nil }
func (c *fakeClient) Close() error                  { c.closed = true; return nil }

type fakeDialer struct {
	client *fakeClient
	err    error
}

func (d *fakeDialer) Dial(context.Context) (Client, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.client, nil
}

func TestSMTPMailerSend(t *testing.T) {
	client := &fakeClient{}
	m := NewSMTPMailer(&fakeDialer{client: client}, "Princip Gym <no-reply@principgym.rs>", zap.NewNop())

	err := m.Send(context.Background(), "ana@example.com", "Welcome", "line one\nline two")
	require.NoError(t, err)

	assert.Equal(t, "no-reply@principgym.rs", client.from)
	assert.Equal(t, "ana@example.com", client.to)
	assert.True(t, client.quit)
	assert.True(t, client.closed)

	msg := client.data.String()
	assert.Contains(t, msg, "Subject: Welcome\r\n")
	assert.Contains(t, msg, "To: ana@example.com\r\n")
	assert.Contains(t, msg, "\r\n\r\nline one\r\nline two")
}

func TestSMTPMailerErrors(t *testing.T) {
	dialErr := errors.New("connection refused")
	m := NewSMTPMailer(&fakeDialer{err: dialErr}, "gym@example.com", zap.NewNop())
	assert.ErrorIs(t, m.Send(context.Background(), "a@b.c", "s", "b"), dialErr)

	rcptErr := errors.New("mailbox unavailable")
	client := &fakeClient{rcptErr: rcptErr}
	m = NewSMTPMailer(&fakeDialer{client: client}, "gym@example.com", zap.NewNop())
	assert.ErrorIs(t, m.Send(context.Background(), "a@b.c", "s", "b"), rcptErr)
	assert.True(t, client.closed)
	assert.False(t, client.quit)
}

func TestNewWithoutHostLogsOnly(t *testing.T) {
	m := New(Config{}, zap.NewNop())
	_, ok := m.(*LogMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "a@b.c", "s", "b"))
}
