package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingEvicter struct {
	sweeps atomic.Int32
}

func (c *countingEvicter) Evict(time.Time) int {
	c.sweeps.Add(1)
	return 1
}

func (c *countingEvicter) Len() int { return 0 }

func TestSchedulerSweeps(t *testing.T) {
	ev := &countingEvicter{}
	s := New(ev, time.Second, zap.NewNop())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return ev.sweeps.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
}
