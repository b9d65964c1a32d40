package quality

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"asciisymphony/internal/logging"
)

// Tolerance is the fraction around the target rate inside which the monitor
// holds the current level steady.
const tolerance = 0.2

// MonitorOptions configures the adaptive quality monitor.
type MonitorOptions struct {
	Interval  time.Duration
	TargetFPS float64
	Initial   Level
	Min       Level
	Max       Level
	// OnChange is invoked from the monitor goroutine whenever the level
	// steps; it must not block.
	OnChange func(from, to Level, measuredFPS float64)
	Logger   *slog.Logger
}

// Monitor samples a frame counter at a fixed interval, derives the achieved
// frames per second, and steps the quality level up or down one rung when the
// measured rate drifts outside the tolerance band around the target. It only
// observes what the foreground render has produced so far; the sole shared
// state with the producer is the atomic frame counter.
type Monitor struct {
	opts   MonitorOptions
	frames atomic.Int64

	mu      sync.Mutex
	current Level

	done chan struct{}
}

// NewMonitor constructs a monitor. Interval and TargetFPS must be positive.
func NewMonitor(opts MonitorOptions) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.TargetFPS <= 0 {
		opts.TargetFPS = 30
	}
	if opts.Initial.Index() < 0 {
		opts.Initial = Balanced
	}
	if opts.Min.Index() < 0 {
		opts.Min = Low
	}
	if opts.Max.Index() < 0 {
		opts.Max = Ultra
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Monitor{
		opts:    opts,
		current: opts.Initial.Clamp(opts.Min, opts.Max),
		done:    make(chan struct{}),
	}
}

// ObserveFrames records the cumulative number of frames produced so far.
// Safe for concurrent use with the monitor loop.
func (m *Monitor) ObserveFrames(total int64) {
	m.frames.Store(total)
}

// Current returns the level the monitor has settled on.
func (m *Monitor) Current() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Run samples until ctx is cancelled. It is intended to be launched as a
// goroutine alongside the foreground render.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	lastFrames := m.frames.Load()
	lastSample := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(lastSample).Seconds()
			if elapsed <= 0 {
				continue
			}
			total := m.frames.Load()
			measured := float64(total-lastFrames) / elapsed
			lastFrames = total
			lastSample = now
			if total == 0 {
				// Nothing produced yet; the subprocess is still starting.
				continue
			}
			m.step(measured)
		}
	}
}

// Wait blocks until the monitor loop has exited.
func (m *Monitor) Wait() {
	<-m.done
}

func (m *Monitor) step(measured float64) {
	target := m.opts.TargetFPS

	m.mu.Lock()
	from := m.current
	to := from
	switch {
	case measured < target*(1-tolerance):
		to = from.StepDown().Clamp(m.opts.Min, m.opts.Max)
	case measured > target*(1+tolerance):
		to = from.StepUp().Clamp(m.opts.Min, m.opts.Max)
	}
	m.current = to
	m.mu.Unlock()

	if to == from {
		return
	}
	m.opts.Logger.Info("adaptive quality step",
		logging.String("from", from.String()),
		logging.String("to", to.String()),
		logging.Float64("measured_fps", measured),
		logging.Float64("target_fps", target),
	)
	if m.opts.OnChange != nil {
		m.opts.OnChange(from, to, measured)
	}
}
