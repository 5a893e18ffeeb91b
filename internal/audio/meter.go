package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
)

// meter passes a stream through unchanged while keeping the most recent
// samples, downmixed to mono, for the frame loop to measure.
type meter struct {
	beep.Streamer

	mu   sync.Mutex
	ring []float64
	next int
	full bool

	// scratch is reused by level, which only the frame loop calls.
	scratch []float64
}

func newMeter(src beep.Streamer, size int) *meter {
	return &meter{Streamer: src, ring: make([]float64, size)}
}

// Stream runs on the speaker goroutine.
func (m *meter) Stream(samples [][2]float64) (int, bool) {
	n, ok := m.Streamer.Stream(samples)
	if n == 0 {
		return n, ok
	}
	m.mu.Lock()
	for _, s := range samples[:n] {
		m.ring[m.next] = (s[0] + s[1]) / 2
		m.next++
		if m.next == len(m.ring) {
			m.next = 0
			m.full = true
		}
	}
	m.mu.Unlock()
	return n, ok
}

// recent appends up to n of the latest mono samples to dst, oldest first.
func (m *meter) recent(dst []float64, n int) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	have := m.next
	if m.full {
		have = len(m.ring)
	}
	if n > have {
		n = have
	}
	start := m.next - n
	if start < 0 {
		dst = append(dst, m.ring[len(m.ring)+start:]...)
		start = 0
	}
	return append(dst, m.ring[start:m.next]...)
}

// level is the RMS of the latest n samples, compressed by a 0.3 power and
// eased toward prev by smoothing. Without samples prev is kept.
func (m *meter) level(n int, prev, smoothing float64) float64 {
	m.scratch = m.recent(m.scratch[:0], n)
	samples := m.scratch
	if len(samples) == 0 {
		return prev
	}
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	return clamp01(smoothing*prev + (1-smoothing)*math.Pow(rms, 0.3))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// FormatDuration renders d as minutes and seconds, MM:SS.
func FormatDuration(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
