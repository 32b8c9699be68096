package scheduler

import (
	"testing"
	"time"

	"flashdeck/internal/models"
)

func testNow() int64 {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func TestAgainResetsToFloor(t *testing.T) {
	now := testNow()
	for _, strategy := range []Strategy{NewFSRSLite(), NewSM2()} {
		t.Run(strategy.ID(), func(t *testing.T) {
			states := []models.SchedulingState{
				strategy.InitialState(now),
				{Due: now, Interval: 30, Ease: 2.5, Stability: 40, Difficulty: 0.2},
				{Due: now, Interval: 365, Ease: 1.3, Stability: 200, Difficulty: 0.9},
			}
			for _, state := range states {
				next := strategy.Next(state, models.RatingAgain, now)
				if next.Interval != 0 {
					t.Errorf("again interval = %d, want 0", next.Interval)
				}
				if next.Due != now {
					t.Errorf("again due = %d, want now (%d)", next.Due, now)
				}
				good := strategy.Next(state, models.RatingGood, now)
				if next.Due > good.Due {
					t.Errorf("again due %d after good due %d", next.Due, good.Due)
				}
				if next.Lapses != state.Lapses+1 {
					t.Errorf("again lapses = %d, want %d", next.Lapses, state.Lapses+1)
				}
			}
		})
	}
}

func TestRepeatedGoodIsMonotonicAndBounded(t *testing.T) {
	now := testNow()
	for _, strategy := range []Strategy{NewFSRSLite(), NewSM2()} {
		t.Run(strategy.ID(), func(t *testing.T) {
			state := strategy.InitialState(now)
			prev := state.Interval
			for i := 0; i < 30; i++ {
				state = strategy.Next(state, models.RatingGood, now)
				if state.Interval < prev {
					t.Fatalf("step %d: interval %d shrank from %d", i, state.Interval, prev)
				}
				if state.Interval > maxIntervalDays {
					t.Fatalf("step %d: interval %d exceeds ceiling %d", i, state.Interval, maxIntervalDays)
				}
				if state.Due != now+int64(state.Interval)*DayMillis {
					t.Fatalf("step %d: due %d inconsistent with interval %d", i, state.Due, state.Interval)
				}
				prev = state.Interval
			}
			if prev != maxIntervalDays {
				t.Errorf("interval should reach the ceiling, got %d", prev)
			}
		})
	}
}

func TestEaseStaysInBand(t *testing.T) {
	now := testNow()
	for _, strategy := range []Strategy{NewFSRSLite(), NewSM2()} {
		t.Run(strategy.ID(), func(t *testing.T) {
			state := strategy.InitialState(now)
			for i := 0; i < 25; i++ {
				state = strategy.Next(state, models.RatingAgain, now)
			}
			if state.Ease < minEase {
				t.Errorf("ease %f below floor after repeated again", state.Ease)
			}
			state = strategy.InitialState(now)
			for i := 0; i < 50; i++ {
				state = strategy.Next(state, models.RatingEasy, now)
			}
			if state.Ease > maxEase {
				t.Errorf("ease %f above ceiling after repeated easy", state.Ease)
			}
		})
	}
}

func TestHardGrowsSlowerThanGood(t *testing.T) {
	now := testNow()
	state := models.SchedulingState{Due: now, Interval: 10, Ease: 2.3, Stability: 10, Difficulty: 0.5}
	strategy := NewFSRSLite()

	hard := strategy.Next(state, models.RatingHard, now)
	good := strategy.Next(state, models.RatingGood, now)
	easy := strategy.Next(state, models.RatingEasy, now)

	if hard.Interval >= good.Interval {
		t.Errorf("hard interval %d should be below good %d", hard.Interval, good.Interval)
	}
	if good.Interval > easy.Interval {
		t.Errorf("good interval %d should not exceed easy %d", good.Interval, easy.Interval)
	}
	// 10 days at the 1.2 hard multiplier truncates to 12.
	if hard.Interval != 12 {
		t.Errorf("hard interval = %d, want 12", hard.Interval)
	}
	if good.Interval != 23 {
		t.Errorf("good interval = %d, want 23", good.Interval)
	}
}

func TestTruncationRoundsTowardSoonerReview(t *testing.T) {
	// 7 * 2.3 = 16.1: the fraction must be dropped, not rounded up.
	if got := growInterval(7, 2.3); got != 16 {
		t.Errorf("growInterval(7, 2.3) = %d, want 16", got)
	}
	// Sub-unity growth on short intervals never shrinks the interval.
	if got := growInterval(5, 1.1); got != 5 {
		t.Errorf("growInterval(5, 1.1) = %d, want 5", got)
	}
	if got := growInterval(0, 2.3); got != 1 {
		t.Errorf("growInterval(0, 2.3) = %d, want 1", got)
	}
}

func TestNextIsPure(t *testing.T) {
	now := testNow()
	strategy := NewFSRSLite()
	state := models.SchedulingState{Due: now, Interval: 4, Ease: 2.0, Stability: 5, Difficulty: 0.4}
	before := state

	first := strategy.Next(state, models.RatingGood, now)
	second := strategy.Next(state, models.RatingGood, now)

	if state != before {
		t.Error("Next mutated its input state")
	}
	if first != second {
		t.Error("Next is not deterministic")
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	for _, id := range []string{"fsrs-lite", "sm2"} {
		strategy, err := registry.Get(id)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", id, err)
		}
		if strategy.ID() != id {
			t.Errorf("Get(%s).ID() = %s", id, strategy.ID())
		}
	}

	if _, err := registry.Get("leitner"); err == nil {
		t.Error("Get(leitner) should fail")
	}

	if got := registry.GetOrDefault("nonsense").ID(); got != DefaultStrategyID {
		t.Errorf("GetOrDefault(nonsense) = %s, want %s", got, DefaultStrategyID)
	}
	if got := registry.GetOrDefault("sm2").ID(); got != "sm2" {
		t.Errorf("GetOrDefault(sm2) = %s, want sm2", got)
	}
}

func TestInitialStateIsImmediatelyDue(t *testing.T) {
	now := testNow()
	for _, strategy := range []Strategy{NewFSRSLite(), NewSM2()} {
		state := strategy.InitialState(now)
		if state.Due != now || state.Interval != 0 {
			t.Errorf("%s initial state due=%d interval=%d, want due=now interval=0",
				strategy.ID(), state.Due, state.Interval)
		}
	}
}
