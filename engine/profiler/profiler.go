package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Profiler tracks frame rate and memory statistics for performance
// monitoring. Emits a structured stats event at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	log            zerolog.Logger
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are emitted. Defaults to 1 second.
//
// Parameters:
//   - interval: minimum time between stat events
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sets the logger stats are emitted to. Defaults to a no-op
// logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(log zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.log = log.With().Str("component", "profiler").Logger()
	}
}

// NewProfiler creates a new Profiler with the provided options.
//
// Parameters:
//   - options: functional options for profiler configuration
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		frameCount:     0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		log:            zerolog.Nop(),
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// Tick should be called once per frame to track frame timing.
// Emits performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause
// times, total memory.
//
// Returns:
//   - bool: true if stats were emitted this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: bytes of live heap objects.
	// TotalAlloc: cumulative heap bytes ever allocated, tracks churn.
	// Sys: total bytes obtained from the OS, the process footprint.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.log.Info().
		Float64("fps", fps).
		Float64("heapMB", allocMB).
		Float64("allocRateMBs", allocRateMB).
		Uint32("gcCount", gcCount).
		Uint64("gcLastPauseUs", lastPauseUs).
		Uint64("gcMaxPauseUs", maxPauseUs).
		Float64("sysMB", sysMB).
		Msg("frame stats")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
