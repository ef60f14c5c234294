package campaign_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/pkg/mailer"
	"github.com/deliverai/deliverai/pkg/mailer/simulated"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email *mailer.Email) error {
	return m.Called(ctx, email).Error(0)
}

func TestDispatcher_Run(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	t.Run("reports one entry per recipient", func(t *testing.T) {
		t.Parallel()

		refused := errors.New("mailbox full")
		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
			return e.To[0] == "b@example.com"
		})).Return(refused)
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)

		d := campaign.NewDispatcher(sender,
			campaign.WithDelay(0),
			campaign.WithDispatchClock(func() time.Time { return fixed }),
		)

		var entries []campaign.DeliveryLogEntry
		err := d.Run(context.Background(), campaign.Run{
			ID:         "run-1",
			Subject:    "Hello",
			Body:       "Body",
			Recipients: []string{"a@example.com", "b@example.com", "c@example.com"},
		}, func(e campaign.DeliveryLogEntry) {
			entries = append(entries, e)
		})
		require.NoError(t, err)
		sender.AssertNumberOfCalls(t, "Send", 3)

		require.Len(t, entries, 3)
		assert.Equal(t, campaign.DeliverySuccess, entries[0].Status)
		assert.Equal(t, campaign.DeliveryFailed, entries[1].Status)
		assert.Equal(t, campaign.DeliverySuccess, entries[2].Status)
		assert.Equal(t, "b@example.com", entries[1].Email)
		assert.Equal(t, "3:09:26 PM", entries[0].Timestamp)
		assert.Equal(t, fixed, entries[0].SentAt)
		assert.NotEqual(t, entries[0].ID, entries[1].ID)
	})

	t.Run("messages carry subject body and run tag", func(t *testing.T) {
		t.Parallel()

		var got []*mailer.Email
		sender := mailer.SenderFunc(func(ctx context.Context, e *mailer.Email) error {
			assert.Equal(t, "run-7", campaign.RunID(ctx))
			got = append(got, e)
			return nil
		})

		d := campaign.NewDispatcher(sender, campaign.WithDelay(0), campaign.WithRenderer(mailer.NewRenderer()))
		err := d.Run(context.Background(), campaign.Run{
			ID:         "run-7",
			Subject:    "Quarterly update",
			Body:       "Hi **team**",
			Recipients: []string{"x@example.com", "y@example.com"},
		}, func(campaign.DeliveryLogEntry) {})
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, []string{"x@example.com"}, got[0].To)
		assert.Equal(t, []string{"y@example.com"}, got[1].To)
		for _, e := range got {
			assert.Equal(t, "Quarterly update", e.Subject)
			assert.Equal(t, "Hi **team**", e.Text)
			assert.Contains(t, e.HTML, "<strong>team</strong>")
			assert.Equal(t, "run-7", e.Tags["campaign"])
		}
	})

	t.Run("without renderer sends plain text only", func(t *testing.T) {
		t.Parallel()

		var html string
		sender := mailer.SenderFunc(func(_ context.Context, e *mailer.Email) error {
			html = e.HTML
			return nil
		})

		d := campaign.NewDispatcher(sender, campaign.WithDelay(0))
		err := d.Run(context.Background(), campaign.Run{Body: "plain", Recipients: []string{"a@b.c"}}, func(campaign.DeliveryLogEntry) {})
		require.NoError(t, err)
		assert.Empty(t, html)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		d := campaign.NewDispatcher(simulated.New(simulated.WithFailureRate(0)), campaign.WithDelay(time.Hour))

		reported := 0
		go cancel()
		err := d.Run(ctx, campaign.Run{Recipients: []string{"a@b.c", "d@e.f"}}, func(campaign.DeliveryLogEntry) {
			reported++
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, reported)
	})

	t.Run("waits between messages", func(t *testing.T) {
		t.Parallel()

		d := campaign.NewDispatcher(simulated.New(simulated.WithFailureRate(0)), campaign.WithDelay(5*time.Millisecond))

		start := time.Now()
		err := d.Run(context.Background(), campaign.Run{Recipients: []string{"a@b.c", "d@e.f", "g@h.i"}}, func(campaign.DeliveryLogEntry) {})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})

	t.Run("seeded draw yields a stable failure ratio", func(t *testing.T) {
		t.Parallel()

		sender := simulated.New(simulated.WithRand(rand.New(rand.NewPCG(1, 2))))
		d := campaign.NewDispatcher(sender, campaign.WithDelay(0))

		recipients := make([]string, 2000)
		for i := range recipients {
			recipients[i] = "user@example.com"
		}

		failed := 0
		err := d.Run(context.Background(), campaign.Run{Recipients: recipients}, func(e campaign.DeliveryLogEntry) {
			if e.Status == campaign.DeliveryFailed {
				failed++
			}
		})
		require.NoError(t, err)
		assert.InDelta(t, 100, failed, 40)
	})
}
