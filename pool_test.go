package mdkatex

import (
	"runtime"
	"testing"
)

func TestResolveWorkers(t *testing.T) {
	t.Run("explicit count wins", func(t *testing.T) {
		for _, n := range []int{1, 3, 16} {
			if got := ResolveWorkers(n); got != n {
				t.Errorf("ResolveWorkers(%d) = %d", n, got)
			}
		}
	})

	t.Run("auto derives from GOMAXPROCS", func(t *testing.T) {
		want := runtime.GOMAXPROCS(0) / cpuDivisor
		if want < MinWorkers {
			want = MinWorkers
		}
		if want > MaxWorkers {
			want = MaxWorkers
		}
		if got := ResolveWorkers(0); got != want {
			t.Errorf("ResolveWorkers(0) = %d, want %d", got, want)
		}
	})

	t.Run("auto stays within bounds", func(t *testing.T) {
		got := ResolveWorkers(0)
		if got < MinWorkers || got > MaxWorkers {
			t.Errorf("ResolveWorkers(0) = %d, want within [%d,%d]", got, MinWorkers, MaxWorkers)
		}
	})
}
