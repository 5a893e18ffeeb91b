package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// constant streams the same stereo sample forever.
func constant(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

// counter streams 1, 2, 3, ... on both channels.
func counter() beep.Streamer {
	n := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			n++
			samples[i] = [2]float64{n, n}
		}
		return len(samples), true
	})
}

func TestMeter_RecentOrder(t *testing.T) {
	m := newMeter(counter(), 4)
	n, ok := m.Stream(make([][2]float64, 6))
	require.True(t, ok)
	require.Equal(t, 6, n)

	assert.Equal(t, []float64{4, 5, 6}, m.recent(nil, 3))
	assert.Equal(t, []float64{3, 4, 5, 6}, m.recent(nil, 10))
}

func TestMeter_RecentBeforeFull(t *testing.T) {
	m := newMeter(counter(), 8)
	assert.Empty(t, m.recent(nil, 4))

	m.Stream(make([][2]float64, 3))
	assert.Equal(t, []float64{1, 2, 3}, m.recent(nil, 8))
}

func TestMeter_Level(t *testing.T) {
	m := newMeter(constant(1), 64)
	m.Stream(make([][2]float64, 64))

	assert.InDelta(t, 1.0, m.level(64, 0, 0), 1e-12)
	assert.InDelta(t, 0.4, m.level(64, 0, 0.6), 1e-12, "smoothed toward the previous level")

	quiet := newMeter(constant(0), 64)
	quiet.Stream(make([][2]float64, 64))
	assert.Equal(t, 0.0, quiet.level(64, 0, 0.6))

	empty := newMeter(constant(1), 64)
	assert.Equal(t, 0.3, empty.level(64, 0.3, 0.6))
}

func TestMeter_LevelIsClamped(t *testing.T) {
	m := newMeter(constant(4), 16)
	m.Stream(make([][2]float64, 16))
	assert.Equal(t, 1.0, m.level(16, 1, 0))
}

func TestMeter_LevelReusesScratch(t *testing.T) {
	m := newMeter(constant(0.5), levelWindow)
	m.Stream(make([][2]float64, levelWindow))
	m.level(levelWindow, 0, 0.6)

	allocs := testing.AllocsPerRun(20, func() {
		m.level(levelWindow, 0, 0.6)
	})
	assert.Zero(t, allocs)
}

func writeWAV(t *testing.T, name string, rate beep.SampleRate, seconds int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(rate.N(time.Duration(seconds)*time.Second), constant(0.25)), format))
	return path
}

func TestSoundtrack_ReloadAndClose(t *testing.T) {
	first := writeWAV(t, "first.wav", 44100, 1)
	resampled := writeWAV(t, "resampled.wav", 22050, 2)
	same := writeWAV(t, "same.wav", 44100, 1)

	s := New(zap.NewNop())
	if err := s.Load(first); err != nil {
		t.Skipf("speaker unavailable: %v", err)
	}
	assert.True(t, s.Playing())
	assert.Equal(t, time.Second, s.Duration())

	done := make(chan error, 1)
	go func() {
		err := s.Load(resampled)
		if err == nil {
			err = s.Load(same)
		}
		if err == nil {
			s.Update(time.Second / 35)
			s.SetPaused(true)
			s.SetPaused(false)
		}
		s.Close()
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reloading or closing the soundtrack blocked")
	}
	assert.False(t, s.Playing())
}

func TestSoundtrack_IdleUpdate(t *testing.T) {
	s := New(zap.NewNop())
	assert.False(t, s.Playing())
	assert.Equal(t, 0.0, s.Update(time.Second/35))
	s.SetPaused(true)
	s.Close()
}

func TestSoundtrack_LoadErrors(t *testing.T) {
	s := New(zap.NewNop())

	err := s.Load(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "track.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0o644))
	err = s.Load(path)
	require.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, s.Playing())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "01:05", FormatDuration(65*time.Second))
	assert.Equal(t, "61:01", FormatDuration(time.Hour+61*time.Second))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-1))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(3))
}
