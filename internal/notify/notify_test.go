package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAssignsUniqueIDs(t *testing.T) {
	n := New()

	first := n.Show("one", KindSuccess, time.Minute)
	second := n.Show("one", KindSuccess, time.Minute)

	assert.NotEqual(t, first, second, "identical messages still get distinct ids")
	assert.Len(t, n.Active(), 2)
}

func TestActivePreservesFIFOOrder(t *testing.T) {
	n := New()

	n.Show("first", KindSuccess, time.Minute)
	n.Show("second", KindError, time.Minute)
	n.Show("third", KindSuccess, time.Minute)

	active := n.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "second", active[1].Message)
	assert.Equal(t, "third", active[2].Message)
}

func TestNotificationExpiresAfterDuration(t *testing.T) {
	n := New()

	n.Show("fleeting", KindSuccess, 20*time.Millisecond)
	require.Len(t, n.Active(), 1)

	assert.Eventually(t, func() bool {
		return len(n.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDismissRemovesEarly(t *testing.T) {
	n := New()

	id := n.Show("gone soon", KindError, time.Minute)
	n.Dismiss(id)

	assert.Empty(t, n.Active())
}

func TestDismissAfterExpiryIsNoOp(t *testing.T) {
	n := New()

	keep := n.Show("keep", KindSuccess, time.Minute)
	id := n.Show("fleeting", KindSuccess, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(n.Active()) == 1
	}, time.Second, 5*time.Millisecond)

	n.Dismiss(id)
	n.Dismiss(id)

	active := n.Active()
	require.Len(t, active, 1, "dismissing an expired notification must not disturb the rest")
	assert.Equal(t, keep, active[0].ID)
}

func TestNonPositiveDurationUsesDefault(t *testing.T) {
	n := New()

	n.Show("sticky enough", KindSuccess, 0)

	// Still visible well before DefaultDuration elapses.
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, n.Active(), 1)
}

func TestHelpersSetKind(t *testing.T) {
	n := New()

	n.Success("saved")
	n.Error("failed")

	active := n.Active()
	require.Len(t, active, 2)
	assert.Equal(t, KindSuccess, active[0].Kind)
	assert.Equal(t, KindError, active[1].Kind)
}
