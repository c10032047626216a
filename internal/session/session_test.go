package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"deskmate/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestAcquire_CreatesOnceAndKeepsTurns(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	conv, release, created, err := s.Acquire(ctx, "c1")
	require.NoError(t, err)
	require.True(t, created)
	conv.Append(domain.RoleUser, "hello", time.Now())
	conv.Append(domain.RoleAssistant, "hi!", time.Now())
	release()
	release()

	conv, release, created, err = s.Acquire(ctx, "c1")
	require.NoError(t, err)
	defer release()
	require.False(t, created)
	require.Equal(t, 2, conv.TurnCount())
	require.Equal(t, 1, conv.UserTurnCount())
	require.Equal(t, "hello", conv.Turns()[0].Text)
	require.Equal(t, 1, s.Len())
}

func TestAcquire_EmptyID(t *testing.T) {
	_, _, _, err := NewStore().Acquire(context.Background(), "  ")
	require.Error(t, err)
}

func TestAcquire_SerializesSameConversation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, release, _, err := s.Acquire(ctx, "c1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		_, r2, _, err := s.Acquire(ctx, "c1")
		if err == nil {
			close(acquired)
			r2()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired while the first still holds the conversation")
	case <-time.After(30 * time.Millisecond):
	}
	release()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second holder never acquired")
	}
}

func TestAcquire_DifferentConversationsDoNotContend(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, release, _, err := s.Acquire(ctx, "a")
	require.NoError(t, err)
	defer release()

	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, r2, _, err := s.Acquire(ctx2, "b")
	require.NoError(t, err)
	r2()
}

func TestAcquire_HonoursContext(t *testing.T) {
	s := NewStore()
	_, release, _, err := s.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, _, err = s.Acquire(ctx, "c1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAcquire_PerConversationOrdering(t *testing.T) {
	s := NewStore(WithMaxTurns(0))
	ctx := context.Background()

	var g errgroup.Group
	for w := 0; w < 4; w++ {
		id := fmt.Sprintf("conv-%d", w%2)
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				conv, release, _, err := s.Acquire(ctx, id)
				if err != nil {
					return err
				}
				text := fmt.Sprintf("w%d-%d", w, i)
				conv.Append(domain.RoleUser, text, time.Now())
				conv.Append(domain.RoleAssistant, "re:"+text, time.Now())
				release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range []string{"conv-0", "conv-1"} {
		conv, release, _, err := s.Acquire(ctx, id)
		require.NoError(t, err)
		turns := conv.Turns()
		release()
		require.Len(t, turns, 200)
		for i := 0; i < len(turns); i += 2 {
			require.Equal(t, domain.RoleUser, turns[i].Role)
			require.Equal(t, domain.RoleAssistant, turns[i+1].Role)
			require.Equal(t, "re:"+turns[i].Text, turns[i+1].Text)
		}
	}
}

func TestConversation_CapDropsOldest(t *testing.T) {
	s := NewStore(WithMaxTurns(3))
	conv, release, _, err := s.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	defer release()

	for i := 0; i < 5; i++ {
		conv.Append(domain.RoleUser, fmt.Sprint(i), time.Now())
	}
	turns := conv.Turns()
	require.Len(t, turns, 3)
	require.Equal(t, "2", turns[0].Text)
	require.Equal(t, "4", turns[2].Text)
}

func TestConversation_WindowAndHydrate(t *testing.T) {
	s := NewStore()
	conv, release, created, err := s.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	defer release()
	require.True(t, created)

	conv.Hydrate([]domain.Turn{
		{Role: domain.RoleUser, Text: "a"},
		{Role: domain.RoleAssistant, Text: "b"},
		{Role: domain.RoleUser, Text: "c"},
	})
	require.Equal(t, 3, conv.TurnCount())

	conv.Hydrate([]domain.Turn{{Role: domain.RoleUser, Text: "ignored"}})
	require.Equal(t, 3, conv.TurnCount())

	w := conv.Window(2)
	require.Equal(t, []string{"b", "c"}, []string{w[0].Text, w[1].Text})
	require.Len(t, conv.Window(0), 3)
	require.Len(t, conv.Window(10), 3)

	w[0].Text = "mutated"
	require.Equal(t, "b", conv.Turns()[1].Text)
}

func TestSweep_EvictsIdleButNotHeld(t *testing.T) {
	clock := newManualClock()
	s := NewStore(WithIdleTTL(10*time.Minute), WithClock(clock.Now))
	ctx := context.Background()

	_, r1, _, err := s.Acquire(ctx, "idle")
	require.NoError(t, err)
	r1()
	_, heldRelease, _, err := s.Acquire(ctx, "held")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	_, r3, _, err := s.Acquire(ctx, "recent")
	require.NoError(t, err)
	r3()

	clock.Advance(6 * time.Minute)
	require.Equal(t, 1, s.Sweep(clock.Now()))
	require.Equal(t, 2, s.Len())

	heldRelease()
	clock.Advance(11 * time.Minute)
	require.Equal(t, 2, s.Sweep(clock.Now()))
	require.Zero(t, s.Len())

	_, r4, created, err := s.Acquire(ctx, "idle")
	require.NoError(t, err)
	r4()
	require.True(t, created)
}

func TestConversation_LastActivityTracksRelease(t *testing.T) {
	clock := newManualClock()
	s := NewStore(WithClock(clock.Now))
	start := clock.Now()

	c, release, _, err := s.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, c.LastActivity().Equal(start))

	clock.Advance(3 * time.Minute)
	release()
	require.True(t, c.LastActivity().Equal(start.Add(3*time.Minute)))

	release()
	clock.Advance(time.Minute)
	require.True(t, c.LastActivity().Equal(start.Add(3*time.Minute)), "second release is a no-op")
}

func TestSweep_DisabledTTL(t *testing.T) {
	clock := newManualClock()
	s := NewStore(WithIdleTTL(0), WithClock(clock.Now))
	_, r, _, err := s.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	r()
	clock.Advance(24 * time.Hour)
	require.Zero(t, s.Sweep(clock.Now()))
	require.Equal(t, 1, s.Len())
}

func TestRun_EvictsPeriodicallyAndStops(t *testing.T) {
	clock := newManualClock()
	s := NewStore(WithIdleTTL(time.Minute), WithSweepInterval(5*time.Millisecond), WithClock(clock.Now))
	_, r, _, err := s.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	r()
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
