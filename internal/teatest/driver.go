// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of running a tea.Program, the Driver calls Update directly and
// executes every returned Cmd inline, feeding the resulting messages back
// into the model until nothing is left. Cmds that block (timers, cursor
// blinks) are abandoned after a short timeout.
package teatest

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may execute.
const MaxDrainDepth = 100

// cmdTimeout is how long a Cmd may run before it is skipped. Store-backed
// Cmds return in microseconds; blink and tick Cmds wait hundreds of ms.
const cmdTimeout = 50 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a Cmd produced tea.QuitMsg. The runtime normally
	// swallows that message, so the driver records it itself.
	Quitting bool

	// History holds every message delivered to Update, in order.
	History []tea.Msg
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit afterwards to run Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.deliver(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs the model's Init command and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
// Messages sent after the model quit are dropped.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.drain(d.deliver(msg), 0)
}

func (d *Driver) deliver(msg tea.Msg) tea.Cmd {
	d.History = append(d.History, msg)
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	return cmd
}

// CountMsgs reports how many delivered messages had type T.
func CountMsgs[T tea.Msg](d *Driver) int {
	n := 0
	for _, msg := range d.History {
		if _, ok := msg.(T); ok {
			n++
		}
	}
	return n
}

// namedKeys maps the key names used by bubbles/key bindings to messages.
var namedKeys = map[string]tea.KeyMsg{
	"enter":     {Type: tea.KeyEnter},
	"esc":       {Type: tea.KeyEsc},
	"tab":       {Type: tea.KeyTab},
	"backspace": {Type: tea.KeyBackspace},
	"delete":    {Type: tea.KeyDelete},
	"up":        {Type: tea.KeyUp},
	"down":      {Type: tea.KeyDown},
	"left":      {Type: tea.KeyLeft},
	"right":     {Type: tea.KeyRight},
	"space":     {Type: tea.KeySpace, Runes: []rune{' '}},
	"ctrl+c":    {Type: tea.KeyCtrlC},
}

// Press sends each named key in turn: "enter", "down", "ctrl+c", or any
// single character such as "x".
func (d *Driver) Press(names ...string) {
	d.T.Helper()
	for _, name := range names {
		if msg, ok := namedKeys[name]; ok {
			d.Send(msg)
			continue
		}
		runes := []rune(name)
		if len(runes) != 1 {
			d.T.Fatalf("teatest: unknown key %q", name)
		}
		d.PressKey(runes[0])
	}
}

// PressBinding sends the first key of b, so tests follow the model's key
// map instead of hard-coding characters.
func (d *Driver) PressBinding(b key.Binding) {
	d.T.Helper()
	keys := b.Keys()
	if len(keys) == 0 {
		d.T.Fatalf("teatest: binding %q has no keys", b.Help().Desc)
	}
	d.Press(keys[0])
}

// PressKey sends a character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Press("enter")
}

// PressEsc sends the Escape key.
func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Press("esc")
}

// PressUp sends the Up arrow key.
func (d *Driver) PressUp() {
	d.T.Helper()
	d.Press("up")
}

// PressDown sends the Down arrow key.
func (d *Driver) PressDown() {
	d.T.Helper()
	d.Press("down")
}

// Type sends s one character at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// View returns the model's rendered output.
func (d *Driver) View() string {
	return d.Model.View()
}

// PlainView returns the rendered output with ANSI escapes removed.
func (d *Driver) PlainView() string {
	return ansiPattern.ReplaceAllString(d.Model.View(), "")
}

// RequireViewContains fails the test unless the plain view contains every
// fragment.
func (d *Driver) RequireViewContains(fragments ...string) {
	d.T.Helper()
	view := d.PlainView()
	for _, f := range fragments {
		if !strings.Contains(view, f) {
			d.T.Fatalf("teatest: view does not contain %q\n--- view ---\n%s", f, view)
		}
	}
}

// RequireViewLacks fails the test if the plain view contains any fragment.
func (d *Driver) RequireViewLacks(fragments ...string) {
	d.T.Helper()
	view := d.PlainView()
	for _, f := range fragments {
		if strings.Contains(view, f) {
			d.T.Fatalf("teatest: view unexpectedly contains %q\n--- view ---\n%s", f, view)
		}
	}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		d.deliver(msg)
		return
	}

	d.drain(d.deliver(msg), depth+1)
}

// runWithTimeout returns cmd's message, or nil if it does not finish in time.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink detects the unexported cursor blink messages from bubbles.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
