// Command clocksim runs the clock loop in a terminal with the face drawn in
// colour and the panel driven from the keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/db"
	"github.com/thatsimonsguy/ledclock/internal/alarm"
	"github.com/thatsimonsguy/ledclock/internal/ambient"
	"github.com/thatsimonsguy/ledclock/internal/clock"
	"github.com/thatsimonsguy/ledclock/internal/engine"
	"github.com/thatsimonsguy/ledclock/internal/gpio"
	"github.com/thatsimonsguy/ledclock/internal/input"
	"github.com/thatsimonsguy/ledclock/internal/logging"
	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
	"github.com/thatsimonsguy/ledclock/internal/sound"
	"github.com/thatsimonsguy/ledclock/internal/sun"
)

const tick = 10 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94a3b8"))
	faceStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717a")).Italic(true)
)

// forward is one detent of clockwise motion as (A, B) levels.
var forward = [][2]bool{{false, true}, {true, true}, {true, false}, {false, false}}
var backward = [][2]bool{{true, false}, {true, true}, {false, true}, {false, false}}

type frameMsg render.Frame

type simModel struct {
	engine  *engine.Engine
	panel   *gpio.FakePanel
	encoder *input.Encoder
	frame   render.Frame
	status  engine.Status
}

func (m simModel) Init() tea.Cmd { return nil }

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = render.Frame(msg)
		m.status = m.engine.Status()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "right", "up":
			turn(m.encoder, forward)
		case "left", "down":
			turn(m.encoder, backward)
		case " ", "enter":
			go press(m.panel, 80*time.Millisecond)
		case "d":
			go func() {
				press(m.panel, 60*time.Millisecond)
				time.Sleep(80 * time.Millisecond)
				press(m.panel, 60*time.Millisecond)
			}()
		case "l":
			go press(m.panel, 2200*time.Millisecond)
		case "a":
			on, _ := m.panel.AlarmSwitchEnabled()
			m.panel.SetSwitch(!on)
		}
	}
	return m, nil
}

func (m simModel) View() string {
	st := m.status
	alarmSwitch := "off"
	if st.AlarmSwitch {
		alarmSwitch = "on"
	}
	local := st.LocalTime
	if local == "" {
		local = "--:--"
	}
	info := fmt.Sprintf("%s %s  state %s  alarm %s  switch %s  brightness %d  sun %02d:%02d-%02d:%02d",
		local, st.Timezone, st.State, st.Alarm, alarmSwitch, st.Brightness,
		st.Sunrise/60, st.Sunrise%60, st.Sunset/60, st.Sunset%60)
	if m.panel.BuzzerOn() {
		info += "  BEEP"
	}

	return titleStyle.Render("LED clock") + "\n" +
		faceStyle.Render(drawFace(m.frame)) + "\n" +
		infoStyle.Render(info) + "\n\n" +
		helpStyle.Render("arrows turn  space click  d double-click  l long press  a alarm switch  q quit") + "\n"
}

func turn(enc *input.Encoder, steps [][2]bool) {
	for _, s := range steps {
		enc.OnEdge(s[0], s[1])
	}
}

func press(p *gpio.FakePanel, d time.Duration) {
	p.Press(true)
	time.Sleep(d)
	p.Press(false)
}

// teaStrip forwards frames to the UI.
type teaStrip struct {
	program *tea.Program
}

func (s *teaStrip) Show(f render.Frame) error {
	if s.program != nil {
		s.program.Send(frameMsg(f))
	}
	return nil
}

// throttledStrip passes on every nth frame; the terminal does not keep up
// with the loop rate.
type throttledStrip struct {
	next  engine.LEDStrip
	every int
	n     int
}

func (s *throttledStrip) Show(f render.Frame) error {
	s.n++
	if s.n%s.every != 0 {
		return nil
	}
	return s.next.Show(f)
}

func main() {
	dbPath := flag.String("db", ":memory:", "Path to sqlite database")
	logFile := flag.String("log-file", "clocksim.log", "Log file path")
	alarmIn := flag.Duration("alarm-in", 0, "Set an alarm this far from now (0 keeps the stored alarm)")
	setup := flag.Bool("setup", false, "Start in the setup menu, as if the button were held at power-on")
	mute := flag.Bool("mute", false, "Do not play the buzzer through the speakers")
	light := flag.Int("light", render.MaxLightSample, "Ambient light level 0-4095")
	flag.Parse()

	logging.Init(zerolog.InfoLevel, *logFile)

	if err := run(*dbPath, *alarmIn, *setup, *mute, *light); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dbPath string, alarmIn time.Duration, setup, mute bool, light int) error {
	dbConn, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if _, err := db.SeedDatabase(dbConn, model.DefaultConfiguration()); err != nil {
		return err
	}
	settings, _, err := db.GetConfiguration(dbConn)
	if err != nil {
		return err
	}
	settings.IsRadioInstalled = false
	if alarmIn > 0 {
		at := time.Now().In(clock.Location(settings)).Add(alarmIn)
		settings.AlarmTime = at.Hour()*60 + at.Minute()
		settings.AlarmActivation = model.AllDays
	}

	panel := gpio.NewFakePanel()
	var buzzer alarm.Buzzer = panel
	if !mute {
		if b, err := sound.NewBuzzer(); err != nil {
			log.Warn().Err(err).Msg("No audio device, buzzer is silent")
		} else {
			defer b.Close()
			buzzer = mirror{b, panel}
		}
	}

	encoder := input.NewEncoder(false, false)
	timings := input.DefaultTimings()
	timings.StepsPerDetent = len(forward)

	strip := &teaStrip{}
	clk := clock.New(settings, clock.WithAlmanac(sun.Almanac{}))
	eng := engine.New(clk, engine.Deps{
		LEDs:    &throttledStrip{next: strip, every: 5},
		Panel:   panel,
		Light:   ambient.Fixed(light),
		Sounder: alarm.NewSounder(buzzer, nil, alarm.NewSequencer(tick)),
		Store:   db.Store{DB: dbConn},
	},
		engine.WithEncoder(encoder),
		engine.WithTimings(timings),
		engine.WithTickPeriod(tick))

	if setup {
		eng.Handle(clock.EnterSetup{})
	}
	eng.Handle(clock.NetworkReady{IP: [4]byte{127, 0, 0, 1}})

	p := tea.NewProgram(simModel{engine: eng, panel: panel, encoder: encoder, status: eng.Status()}, tea.WithAltScreen())
	strip.program = p

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	_, err = p.Run()
	cancel()
	<-done
	return err
}

// mirror drives the speaker and records the level on the fake panel for the
// status line.
type mirror struct {
	speaker *sound.Buzzer
	panel   *gpio.FakePanel
}

func (m mirror) Set(on bool) error {
	m.panel.Set(on)
	return m.speaker.Set(on)
}
