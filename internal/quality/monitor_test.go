package quality

import (
	"context"
	"testing"
	"time"
)

func TestStepDownWhenBelowTarget(t *testing.T) {
	var from, to Level
	m := NewMonitor(MonitorOptions{
		TargetFPS: 30,
		Initial:   High,
		OnChange: func(f, t2 Level, _ float64) {
			from, to = f, t2
		},
	})

	m.step(20) // 30*(1-0.2)=24; 20 is below the band
	if m.Current() != Balanced {
		t.Fatalf("expected balanced after slow sample, got %s", m.Current())
	}
	if from != High || to != Balanced {
		t.Fatalf("unexpected transition %s -> %s", from, to)
	}
}

func TestStepUpWhenAboveTarget(t *testing.T) {
	m := NewMonitor(MonitorOptions{TargetFPS: 30, Initial: Balanced})
	m.step(40) // 30*(1+0.2)=36; 40 is above the band
	if m.Current() != High {
		t.Fatalf("expected high after fast sample, got %s", m.Current())
	}
}

func TestHoldInsideToleranceBand(t *testing.T) {
	m := NewMonitor(MonitorOptions{TargetFPS: 30, Initial: Balanced})
	for _, fps := range []float64{24, 30, 36} {
		m.step(fps)
		if m.Current() != Balanced {
			t.Fatalf("expected hold at balanced for %.0f fps, got %s", fps, m.Current())
		}
	}
}

func TestStepsAreClamped(t *testing.T) {
	m := NewMonitor(MonitorOptions{TargetFPS: 30, Initial: Balanced, Min: Balanced, Max: High})
	m.step(1)
	if m.Current() != Balanced {
		t.Fatalf("expected clamp at balanced, got %s", m.Current())
	}
	m.step(100)
	m.step(100)
	if m.Current() != High {
		t.Fatalf("expected clamp at high, got %s", m.Current())
	}
}

func TestOneStepPerSample(t *testing.T) {
	m := NewMonitor(MonitorOptions{TargetFPS: 30, Initial: Ultra})
	m.step(1)
	if m.Current() != High {
		t.Fatalf("a single sample must step one rung, got %s", m.Current())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewMonitor(MonitorOptions{Interval: 10 * time.Millisecond, TargetFPS: 30})
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	m.ObserveFrames(5)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
}
