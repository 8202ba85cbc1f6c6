package alarm

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Buzzer interface {
	Set(on bool) error
}

// Radio is an FM receiver tuned in tenths of a MHz.
type Radio interface {
	Tune(tenths int) error
	SetMute(muted bool) error
}

// Sounder turns alarm commands into buzzer and radio output.
type Sounder struct {
	buzzer Buzzer
	radio  Radio
	seq    *Sequencer
	silent bool
	log    zerolog.Logger
}

type Option func(*Sounder)

// Silent keeps every output off, for running on a desk at night.
func Silent() Option {
	return func(s *Sounder) { s.silent = true }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Sounder) { s.log = l }
}

// NewSounder accepts a nil radio when none is fitted.
func NewSounder(buzzer Buzzer, radio Radio, seq *Sequencer, opts ...Option) *Sounder {
	s := &Sounder{buzzer: buzzer, radio: radio, seq: seq, log: log.Logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sounder) Start(useRadio bool, frequency int) error {
	if s.silent {
		s.log.Info().Msg("Alarm start suppressed in safe mode")
		return nil
	}
	if useRadio && s.radio != nil {
		if err := s.radio.Tune(frequency); err != nil {
			return fmt.Errorf("tune radio to %d: %w", frequency, err)
		}
		if err := s.radio.SetMute(false); err != nil {
			return fmt.Errorf("unmute radio: %w", err)
		}
		return nil
	}
	s.seq.Start()
	if err := s.buzzer.Set(true); err != nil {
		return fmt.Errorf("buzzer on: %w", err)
	}
	return nil
}

// Silence mutes the radio or stops the buzzer sequence.
func (s *Sounder) Silence(useRadio bool) error {
	if useRadio && s.radio != nil {
		if s.silent {
			return nil
		}
		if err := s.radio.SetMute(true); err != nil {
			return fmt.Errorf("mute radio: %w", err)
		}
		return nil
	}
	s.seq.Stop()
	if err := s.buzzer.Set(false); err != nil {
		return fmt.Errorf("buzzer off: %w", err)
	}
	return nil
}

// Tick steps the beep sequence while the buzzer is sounding.
func (s *Sounder) Tick() error {
	if !s.seq.Tick() {
		return nil
	}
	if err := s.buzzer.Set(s.seq.On()); err != nil {
		return fmt.Errorf("buzzer step: %w", err)
	}
	return nil
}

func (s *Sounder) Sounding() bool {
	return s.seq.Active()
}
