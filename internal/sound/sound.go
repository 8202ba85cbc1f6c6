// Package sound plays the buzzer through the host's audio device, for running
// the clock away from its board.
package sound

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"
)

const (
	SampleRate   = 44100
	ChannelCount = 1
	ToneHz       = 2700
	amplitude    = 8000
)

// Buzzer sounds a square wave while on.
type Buzzer struct {
	mu     sync.Mutex
	player *oto.Player
}

func NewBuzzer() (*Buzzer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug().Int("rate", SampleRate).Int("tone_hz", ToneHz).Msg("Audio buzzer initialized")
	return &Buzzer{player: ctx.NewPlayer(NewTone(ToneHz, SampleRate))}, nil
}

func (b *Buzzer) Set(on bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case on && !b.player.IsPlaying():
		b.player.Play()
	case !on && b.player.IsPlaying():
		b.player.Pause()
	}
	return nil
}

func (b *Buzzer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.player.Pause()
	return b.player.Close()
}

// Tone is an endless 16-bit little-endian mono square wave.
type Tone struct {
	half   int
	sample int
}

func NewTone(hz, rate int) *Tone {
	half := rate / (2 * hz)
	if half < 1 {
		half = 1
	}
	return &Tone{half: half}
}

// Read fills p with whole samples; a trailing odd byte is left unwritten.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	for i := 0; i < n; i += 2 {
		v := int16(amplitude)
		if (t.sample/t.half)%2 == 1 {
			v = -amplitude
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(v))
		t.sample = (t.sample + 1) % (2 * t.half)
	}
	return n, nil
}
