package pinctrl

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/thatsimonsguy/ledclock/internal/config"
)

type PinState struct {
	Pin     int
	Mode    string // "ip", "op", "no"
	Pull    string // "pu", "pd", "pn"
	Drive   string // "dh", "dl", ""
	Level   string // "hi", "lo", "--"
	Comment string
}

// Setting is one line of the boot pin plan.
type Setting struct {
	Label string
	Pin   int
	Mode  string
	Pull  string
	Drive string
}

// Args returns the options passed to `pinctrl set`.
func (s Setting) Args() []string {
	args := []string{s.Mode, s.Pull}
	if s.Drive != "" {
		args = append(args, s.Drive)
	}
	return args
}

// BootPlan lists the state each configured pin should be parked in before the
// clock starts: the buzzer driven low, every input pulled up.
func BootPlan(g config.GPIO) []Setting {
	var plan []Setting
	add := func(label string, pin *int, mode, pull, drive string) {
		if pin == nil {
			return
		}
		plan = append(plan, Setting{Label: label, Pin: *pin, Mode: mode, Pull: pull, Drive: drive})
	}
	add("buzzer", g.Buzzer, "op", "pn", "dl")
	add("encoder_a", g.EncoderA, "ip", "pu", "")
	add("encoder_b", g.EncoderB, "ip", "pu", "")
	add("button", g.Button, "ip", "pu", "")
	add("alarm_switch", g.AlarmSwitch, "ip", "pu", "")
	add("no_alarm_jumper", g.NoAlarm, "ip", "pu", "")
	return plan
}

// Verify compares read-back pin states against the plan and describes every
// pin that differs.
func Verify(states map[int]PinState, plan []Setting) []string {
	var bad []string
	for _, s := range plan {
		got, ok := states[s.Pin]
		if !ok {
			bad = append(bad, fmt.Sprintf("%s (GPIO%d): not reported", s.Label, s.Pin))
			continue
		}
		if got.Mode != s.Mode || got.Pull != s.Pull || (s.Drive != "" && got.Drive != s.Drive) {
			bad = append(bad, fmt.Sprintf("%s (GPIO%d): want %s, got %s",
				s.Label, s.Pin, strings.Join(s.Args(), " "), describe(got)))
		}
	}
	return bad
}

func describe(p PinState) string {
	parts := []string{p.Mode, p.Pull}
	if p.Drive != "" {
		parts = append(parts, p.Drive)
	}
	return strings.Join(parts, " ")
}

var pinLineRegex = regexp.MustCompile(`^\s*(\d+):\s+(\S+)\s+(.*?)\s+\|\s+(\S+)\s+//\s+(.*GPIO(\d+).*)$`)

// ReadAllPins returns the parsed result of `pinctrl get`, keyed by GPIO number.
func ReadAllPins() (map[int]PinState, error) {
	out, err := exec.Command("pinctrl", "get").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute pinctrl get: %w", err)
	}
	return ParseGet(strings.NewReader(string(out)))
}

// ParseGet parses `pinctrl get` output. Lines that are not pin lines are
// skipped.
func ParseGet(r io.Reader) (map[int]PinState, error) {
	result := make(map[int]PinState)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := pinLineRegex.FindStringSubmatch(scanner.Text())
		if len(matches) != 7 {
			continue
		}

		index, _ := strconv.Atoi(matches[1])
		state := PinState{
			Pin:     index,
			Mode:    matches[2],
			Level:   matches[4],
			Comment: matches[5],
		}

		for _, opt := range strings.Fields(matches[3]) {
			if state.Pull == "" && (opt == "pu" || opt == "pd" || opt == "pn") {
				state.Pull = opt
			} else if state.Drive == "" && (opt == "dh" || opt == "dl") {
				state.Drive = opt
			}
		}

		result[state.Pin] = state
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning pinctrl output: %w", err)
	}
	return result, nil
}

// SetPin applies one or more pinctrl set options to a pin, e.g.
// SetPin(18, "op", "pn", "dl").
func SetPin(pin int, opts ...string) error {
	args := append([]string{"set", fmt.Sprint(pin)}, opts...)
	out, err := exec.Command("pinctrl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("pinctrl set failed: %s (output: %s)", err, string(out))
	}
	return nil
}

// Apply sets every pin in the plan, stopping at the first failure.
func Apply(plan []Setting) error {
	for _, s := range plan {
		if err := SetPin(s.Pin, s.Args()...); err != nil {
			return fmt.Errorf("%s: %w", s.Label, err)
		}
	}
	return nil
}
