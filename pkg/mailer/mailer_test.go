package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, Config{FromName: "Acme", FromEmail: "team@acme.test"})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.To[0] == "alice@example.com" &&
			email.From == "Acme <team@acme.test>" &&
			email.Subject == "Hello"
	})).Return(nil)

	err := m.Send(context.Background(), &Email{
		To:      []string{"alice@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_KeepsExplicitFrom(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, Config{FromName: "Acme", FromEmail: "team@acme.test"})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.From == "ceo@acme.test"
	})).Return(nil)

	err := m.Send(context.Background(), &Email{
		To:   []string{"bob@example.com"},
		From: "ceo@acme.test",
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	m := New(SenderFunc(func(context.Context, *Email) error { return nil }), Config{FromEmail: "team@acme.test"})

	email := &Email{To: []string{"bob@example.com"}}
	require.NoError(t, m.Send(context.Background(), email))
	require.Empty(t, email.From)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, Config{})

	err := m.Send(context.Background(), &Email{Subject: "Hello"})
	require.ErrorIs(t, err, ErrNoRecipient)

	err = m.Send(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoRecipient)

	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_SenderFailure(t *testing.T) {
	t.Parallel()

	refused := errors.New("mailbox unavailable")
	mockSender := &MockSender{}
	mockSender.On("Send", mock.Anything, mock.Anything).Return(refused)

	m := New(mockSender, Config{})
	err := m.Send(context.Background(), &Email{To: []string{"carol@example.com"}})

	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, refused)
}

func TestAddress(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Jane <jane@example.com>", Address("Jane", "jane@example.com"))
	require.Equal(t, "jane@example.com", Address("", "jane@example.com"))
}
