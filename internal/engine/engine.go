// Package engine runs the clock: it polls the hardware once per tick, feeds
// the state machine, carries out its commands and draws the face.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/internal/clock"
	"github.com/thatsimonsguy/ledclock/internal/datadog"
	"github.com/thatsimonsguy/ledclock/internal/input"
	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
)

const (
	// LightEvery is the number of ticks between ambient light samples.
	LightEvery = 10
	// SyncedYear is the first year the wall clock is trusted. Before an NTP
	// fix the system clock sits at the epoch or the image build date.
	SyncedYear = 2024

	statsEvery = 100
	eventQueue = 16
	writeQueue = 4
)

var ErrBusy = errors.New("configuration write queue full")

type LEDStrip interface {
	Show(render.Frame) error
}

type Panel interface {
	ButtonPressed() (bool, error)
	AlarmSwitchEnabled() (bool, error)
}

type LightSensor interface {
	Sample() (int, error)
}

// Sounder carries out the alarm output; alarm.Sounder implements it.
type Sounder interface {
	Start(useRadio bool, frequency int) error
	Silence(useRadio bool) error
	Tick() error
}

type ConfigStore interface {
	SaveConfiguration(model.Configuration) error
	RecordAlarmEvent(model.AlarmEvent) error
}

type Notifier interface {
	Send(title, message string) error
}

type NotifierFunc func(title, message string) error

func (f NotifierFunc) Send(title, message string) error { return f(title, message) }

// Deps are the collaborators of the engine. Light, Store and Notifier may be
// nil.
type Deps struct {
	LEDs     LEDStrip
	Panel    Panel
	Light    LightSensor
	Sounder  Sounder
	Store    ConfigStore
	Notifier Notifier
}

// Status is a point-in-time summary of the clock for the HTTP API.
type Status struct {
	State           string    `json:"state"`
	Alarm           string    `json:"alarm"`
	AlarmRemaining  int       `json:"alarmRemaining"`
	SnoozeRemaining int       `json:"snoozeRemaining"`
	TimeKnown       bool      `json:"timeKnown"`
	LocalTime       string    `json:"localTime"`
	Timezone        string    `json:"timezone"`
	Daytime         bool      `json:"daytime"`
	Sunrise         int       `json:"sunrise"`
	Sunset          int       `json:"sunset"`
	Brightness      int       `json:"brightness"`
	AlarmSwitch     bool      `json:"alarmSwitch"`
	Ticks           uint64    `json:"ticks"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEncoder shares an encoder whose edges are already wired to the GPIO
// event handler.
func WithEncoder(enc *input.Encoder) Option {
	return func(e *Engine) { e.encoder = enc }
}

func WithTimings(t input.Timings) Option {
	return func(e *Engine) { e.timings = t }
}

func WithTickPeriod(d time.Duration) Option {
	return func(e *Engine) { e.period = d }
}

// WithClock replaces time.Now, for tests and the simulator.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

type Engine struct {
	log        zerolog.Logger
	deps       Deps
	clock      *clock.Clock
	encoder    *input.Encoder
	classifier *input.Classifier
	renderer   *render.Renderer
	timings    input.Timings
	period     time.Duration
	now        func() time.Time

	ticks      uint64
	lastSwitch bool
	health     *health

	writes  chan model.Configuration
	persist chan model.Configuration
	events  chan model.AlarmEvent

	mu     sync.RWMutex
	config model.Configuration
	status Status
}

func New(c *clock.Clock, deps Deps, opts ...Option) *Engine {
	e := &Engine{
		log:      log.Logger,
		deps:     deps,
		clock:    c,
		renderer: render.NewRenderer(),
		timings:  input.DefaultTimings(),
		period:   10 * time.Millisecond,
		now:      time.Now,
		writes:   make(chan model.Configuration, writeQueue),
		persist:  make(chan model.Configuration, 1),
		events:   make(chan model.AlarmEvent, eventQueue),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.health = newHealth(e.log)
	e.classifier = input.NewClassifier(e.timings, e.encoder)
	e.lastSwitch = c.AlarmSwitchEnabled()
	e.config = c.Config()
	e.renderer.SetBrightness(e.config.Brightness)
	e.snapshot(e.now())
	return e
}

// OnEncoderEdge is the GPIO edge callback when no shared encoder was given.
func (e *Engine) OnEncoderEdge(a, b bool) {
	e.classifier.OnEncoderEdge(a, b)
}

// Handle passes an event from outside the tick, such as NetworkReady or
// EnterSetup at boot. It must not be called once Run has started.
func (e *Engine) Handle(ev clock.Event) {
	e.execute(e.clock.Handle(ev))
}

// Run ticks until ctx is cancelled, then waits for pending saves and events.
func (e *Engine) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.persistWorker(ctx)
	}()
	go func() {
		defer wg.Done()
		e.eventWorker(ctx)
	}()

	e.log.Info().Dur("period", e.period).Msg("Starting tick loop")
	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("Stopping tick loop")
			wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick runs one pass of the loop.
func (e *Engine) Tick() {
	start := e.now()

	for drained := false; !drained; {
		select {
		case cfg := <-e.writes:
			e.execute(e.clock.Handle(clock.ConfigWritten{Config: cfg}))
		default:
			drained = true
		}
	}

	if e.ticks%LightEvery == 0 {
		e.sampleLight()
	}

	e.execute(e.clock.Handle(clock.Tick{}))
	e.health.report("sounder", e.deps.Sounder.Tick())

	enabled, err := e.deps.Panel.AlarmSwitchEnabled()
	e.health.report("alarm_switch", err)
	if err == nil && enabled != e.lastSwitch {
		e.lastSwitch = enabled
		e.log.Info().Bool("enabled", enabled).Msg("Alarm switch changed")
		e.execute(e.clock.Handle(clock.AlarmSwitch{Enabled: enabled}))
	}

	if ev, ok := e.classifier.PollRotation(); ok {
		e.execute(e.clock.Handle(clock.Input{Event: ev}))
	}

	pressed, err := e.deps.Panel.ButtonPressed()
	e.health.report("button", err)
	if err == nil {
		if ev, ok := e.classifier.PollButton(pressed, start); ok {
			e.log.Debug().Str("kind", ev.Kind.String()).Msg("Button event")
			e.execute(e.clock.Handle(clock.Input{Event: ev}))
		}
	}

	if !e.clock.TimeKnown() && start.Year() >= SyncedYear {
		e.clock.Handle(clock.TimeSynced{Now: start})
	}
	e.execute(e.clock.Handle(clock.WallClock{Now: start}))

	frame := e.renderer.Render(e.clock.View())
	e.health.report("leds", e.deps.LEDs.Show(frame))

	e.ticks++
	e.snapshot(start)

	if e.ticks%statsEvery == 0 {
		datadog.Timing("engine.tick", e.now().Sub(start))
		datadog.Gauge("engine.brightness", float64(e.renderer.Brightness()))
	}
}

func (e *Engine) sampleLight() {
	configured := e.clock.Config().Brightness
	if e.deps.Light == nil {
		e.renderer.SetBrightness(configured)
		return
	}
	sample, err := e.deps.Light.Sample()
	e.health.report("light", err)
	if err != nil {
		return
	}
	e.renderer.SetBrightness(render.ScaleBrightness(sample, configured))
}

func (e *Engine) execute(cmds []clock.Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case clock.StartAlarm:
			e.log.Info().Bool("radio", c.UseRadio).Int("frequency", c.Frequency).Msg("Starting alarm output")
			e.health.report("sounder_cmd", e.deps.Sounder.Start(c.UseRadio, c.Frequency))
			e.alarmEvent(model.AlarmStarted, c.UseRadio)
		case clock.SnoozeAlarm:
			e.log.Info().Msg("Alarm snoozed")
			e.health.report("sounder_cmd", e.deps.Sounder.Silence(c.UseRadio))
			e.alarmEvent(model.AlarmSnoozed, c.UseRadio)
		case clock.StopAlarm:
			e.log.Info().Msg("Alarm stopped")
			e.health.report("sounder_cmd", e.deps.Sounder.Silence(c.UseRadio))
			e.alarmEvent(model.AlarmStopped, c.UseRadio)
		case clock.PersistConfig:
			e.mu.Lock()
			e.config = c.Config
			e.mu.Unlock()
			e.queuePersist(c.Config)
			datadog.Incr("config.commit")
		}
	}
}

// queuePersist keeps only the newest configuration waiting to be saved.
func (e *Engine) queuePersist(cfg model.Configuration) {
	select {
	case e.persist <- cfg:
		return
	default:
	}
	select {
	case <-e.persist:
	default:
	}
	e.persist <- cfg
}

func (e *Engine) alarmEvent(kind model.AlarmEventKind, useRadio bool) {
	datadog.Incr("alarm."+string(kind))
	ev := model.AlarmEvent{Kind: kind, At: e.now(), UseRadio: useRadio}
	select {
	case e.events <- ev:
	default:
		e.log.Warn().Str("kind", string(kind)).Msg("Alarm event queue full, dropping event")
	}
}

func (e *Engine) persistWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			select {
			case cfg := <-e.persist:
				e.save(cfg)
			default:
			}
			return
		case cfg := <-e.persist:
			e.save(cfg)
		}
	}
}

func (e *Engine) save(cfg model.Configuration) {
	if e.deps.Store == nil {
		return
	}
	err := e.deps.Store.SaveConfiguration(cfg)
	e.health.report("store", err)
	if err != nil {
		return
	}
	e.log.Info().
		Int("alarm_time", cfg.AlarmTime).
		Str("activation", cfg.AlarmActivation.String()).
		Msg("Configuration saved")
	e.notify("Configuration saved", cfg.DeviceName+" configuration updated")
}

func (e *Engine) eventWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-e.events:
					e.record(ev)
				default:
					return
				}
			}
		case ev := <-e.events:
			e.record(ev)
		}
	}
}

func (e *Engine) record(ev model.AlarmEvent) {
	if e.deps.Store != nil {
		e.health.report("history", e.deps.Store.RecordAlarmEvent(ev))
	}
	e.notify("Alarm "+string(ev.Kind), "Alarm "+string(ev.Kind)+" at "+ev.At.Format("15:04:05"))
}

func (e *Engine) notify(title, message string) {
	if e.deps.Notifier == nil {
		return
	}
	e.health.report("notifier", e.deps.Notifier.Send(title, message))
}

func (e *Engine) snapshot(now time.Time) {
	sunrise, sunset := e.clock.SunTimes()
	var local string
	if m, ok := e.clock.MinuteOfDay(); ok {
		local = fmt.Sprintf("%02d:%02d", m/60, m%60)
	}
	st := Status{
		State:           e.clock.State().String(),
		Alarm:           e.clock.Alarm().String(),
		AlarmRemaining:  e.clock.AlarmRemaining(),
		SnoozeRemaining: e.clock.SnoozeRemaining(),
		TimeKnown:       e.clock.TimeKnown(),
		LocalTime:       local,
		Timezone:        e.clock.Location().String(),
		Daytime:         e.clock.Daytime(),
		Sunrise:         sunrise,
		Sunset:          sunset,
		Brightness:      e.renderer.Brightness(),
		AlarmSwitch:     e.clock.AlarmSwitchEnabled(),
		Ticks:           e.ticks,
		UpdatedAt:       now,
	}
	e.mu.Lock()
	e.status = st
	e.mu.Unlock()
}

// Config returns the committed configuration as of the last tick.
func (e *Engine) Config() model.Configuration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// WriteConfig queues cfg to replace the committed configuration at the start
// of the next tick.
func (e *Engine) WriteConfig(cfg model.Configuration) error {
	select {
	case e.writes <- cfg:
		return nil
	default:
		return ErrBusy
	}
}
