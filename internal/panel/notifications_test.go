package panel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

type fakeNotificationSource struct {
	batches map[int][]models.Notification
	latest  int
	asked   []int
}

func (f *fakeNotificationSource) Notifications(ctx context.Context, afterID int) ([]models.Notification, int, error) {
	f.asked = append(f.asked, afterID)
	return f.batches[afterID], f.latest, nil
}

func TestNotificationsIncrementalMerge(t *testing.T) {
	source := &fakeNotificationSource{
		batches: map[int][]models.Notification{
			0: {
				{ID: 2, Message: "Fee posted"},
				{ID: 1, Message: "Welcome"},
			},
		},
		latest: 2,
	}
	p := NewNotifications(source, time.Hour, nil)

	require.NoError(t, p.Refresh(context.Background()))
	first, ok := p.Fragment()
	require.True(t, ok)
	assert.Contains(t, first.HTML, "Fee posted")
	assert.Contains(t, first.HTML, "Welcome")

	// The next poll only asks for entries newer than id 2 and keeps
	// the earlier ones in place.
	source.batches[2] = []models.Notification{{ID: 3, Message: "Event tomorrow"}}
	source.latest = 3
	require.NoError(t, p.Refresh(context.Background()))

	second, _ := p.Fragment()
	assert.Equal(t, []int{0, 2}, source.asked)
	assert.Contains(t, second.HTML, "Event tomorrow")
	assert.Contains(t, second.HTML, "Welcome")
}

func TestNotificationsMarkReadFlipsCachedEntry(t *testing.T) {
	source := &fakeNotificationSource{
		batches: map[int][]models.Notification{
			0: {{ID: 5, Message: "Unpaid fee", Read: false}},
		},
		latest: 5,
	}
	p := NewNotifications(source, time.Hour, nil)

	require.NoError(t, p.Refresh(context.Background()))
	first, _ := p.Fragment()
	assert.Contains(t, first.HTML, `data-action="mark-read"`)

	p.MarkRead(5)
	require.NoError(t, p.Refresh(context.Background()))

	second, _ := p.Fragment()
	assert.Greater(t, second.Seq, first.Seq)
	assert.NotContains(t, second.HTML, `data-action="mark-read"`)
}

func TestNotificationsEmptyPollDoesNotRerender(t *testing.T) {
	source := &fakeNotificationSource{
		batches: map[int][]models.Notification{
			0: {{ID: 1, Message: "Welcome"}},
		},
		latest: 1,
	}
	p := NewNotifications(source, time.Hour, nil)

	require.NoError(t, p.Refresh(context.Background()))
	first, _ := p.Fragment()

	require.NoError(t, p.Refresh(context.Background()))
	second, _ := p.Fragment()
	assert.Equal(t, first.Seq, second.Seq)
}
