// Package audio plays an optional soundtrack and measures its loudness for
// audio-reactive drift.
package audio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/shift-rings/internal/config"
)

// levelWindow is how many recent samples the loudness follows.
const levelWindow = 2048

var ErrUnsupported = errors.New("unsupported audio file type")

// Soundtrack plays an optional audio file whose loudness drives the drift
// amplitude.
type Soundtrack struct {
	logger *zap.Logger

	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	meter       *meter
	initDone    bool
	// rate is the sample rate the speaker was initialized with.
	rate  beep.SampleRate
	ended atomic.Bool

	level    float64
	duration time.Duration
	position time.Duration
}

func New(logger *zap.Logger) *Soundtrack {
	return &Soundtrack{logger: logger}
}

func (s *Soundtrack) Playing() bool { return s.ctrl != nil && s.streamer != nil }

// OpenDialog lets the user pick a file. Cancelling is not an error.
func (s *Soundtrack) OpenDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return s.Load(filename)
}

func decode(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, ErrUnsupported
	}
}

// Load replaces whatever is playing with the file at path.
func (s *Soundtrack) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	m := newMeter(streamer, config.VisualRingSize)
	ctrl := &beep.Ctrl{Streamer: m}

	// The speaker is initialized once. Init and Clear take the speaker lock
	// themselves, and later tracks are resampled to the first track's rate
	// because re-initializing a running speaker can block on its own
	// update goroutine.
	if !s.initDone {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return err
		}
		s.initDone = true
		s.rate = format.SampleRate
	} else {
		speaker.Clear()
	}
	var out beep.Streamer = ctrl
	if format.SampleRate != s.rate {
		out = beep.Resample(4, format.SampleRate, s.rate, ctrl)
	}
	s.release()

	s.currentFile = f
	s.streamer = streamer
	s.format = format
	s.ctrl = ctrl
	s.meter = m
	s.ended.Store(false)
	s.duration = format.SampleRate.D(streamer.Len())
	s.position = 0

	speaker.Play(beep.Seq(out, beep.Callback(func() {
		s.ended.Store(true)
	})))

	s.logger.Info("soundtrack loaded",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.String("duration", FormatDuration(s.duration)))
	return nil
}

func (s *Soundtrack) SetPaused(paused bool) {
	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

// Update follows playback by one frame and returns the current loudness.
func (s *Soundtrack) Update(frame time.Duration) float64 {
	if s.ended.Load() {
		s.logger.Info("soundtrack finished")
		s.release()
		s.ended.Store(false)
	}
	if !s.Playing() {
		s.level = 0
		return 0
	}
	s.position += frame
	if s.position > s.duration {
		s.position = s.duration
	}
	s.level = s.meter.level(levelWindow, s.level, config.SmoothingFactor)
	return s.level
}

// Position and Duration describe playback progress.
func (s *Soundtrack) Position() time.Duration { return s.position }

func (s *Soundtrack) Duration() time.Duration { return s.duration }

func (s *Soundtrack) Level() float64 { return s.level }

func (s *Soundtrack) release() {
	if s.streamer != nil {
		_ = s.streamer.Close()
		s.streamer = nil
	}
	if s.currentFile != nil {
		_ = s.currentFile.Close()
		s.currentFile = nil
	}
	s.ctrl = nil
	s.meter = nil
	s.duration = 0
	s.position = 0
}

func (s *Soundtrack) Close() {
	if s.initDone {
		speaker.Clear()
	}
	s.release()
}
