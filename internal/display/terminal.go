package display

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/tuner"
)

// BarCells is the width of the cents indicator, one cell per cent.
const BarCells = 101

var (
	styleBar    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleInTune = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleOff    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// canvas is the part of tcell.Screen used for drawing.
type canvas interface {
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Terminal renders readings full screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewTerminal opens the terminal. Esc, q and Ctrl-C call cancel.
func NewTerminal(cancel context.CancelFunc) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("display: open terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("display: init terminal: %w", err)
	}
	return NewTerminalScreen(s, cancel), nil
}

// NewTerminalScreen renders to an initialized screen.
func NewTerminalScreen(s tcell.Screen, cancel context.CancelFunc) *Terminal {
	t := &Terminal{
		screen: s,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.events()
	return t
}

func (t *Terminal) events() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if t.handle(ev) {
			if t.cancel != nil {
				t.cancel()
			}
		}
	}
}

// handle reacts to ev and reports whether the user asked to quit.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			return ev.Rune() == 'q' || ev.Rune() == 'Q'
		}
	case *tcell.EventResize:
		t.mu.Lock()
		t.screen.Sync()
		t.mu.Unlock()
	}
	return false
}

// Render draws r.
func (t *Terminal) Render(r tuner.Reading) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	draw(t.screen, r)
	t.screen.Show()
	return nil
}

// Close restores the terminal. It is safe to call more than once.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		t.screen.Fini()
		<-t.done
	})
	return nil
}

func draw(c canvas, r tuner.Reading) {
	w, h := c.Size()
	left := max((w-BarCells)/2, 0)
	top := max(h/2-2, 0)

	status := NoSignal
	if r.Detected {
		status = fmt.Sprintf("%.2f Hz", r.Frequency)
	}
	centered(c, w, top, status, styleText)

	for i := 0; i < BarCells; i++ {
		ch := '─'
		if i == BarCells/2 {
			ch = '┼'
		}
		c.SetContent(left+i, top+1, ch, nil, styleBar)
	}

	label, style := NoSignal, styleText
	if r.Detected {
		style = styleOff
		if r.InTune() {
			style = styleInTune
		}
		c.SetContent(left+IndicatorCell(r), top+1, '█', nil, style)
		label = fmt.Sprintf("%s %+.1f ct", r.Note.Name(), r.Note.Cents)
	}
	centered(c, w, top+2, label, style)
	centered(c, w, top+3, Level(r), styleText)
}

// Level formats the window RMS in dBFS, e.g. "level -20.0 dBFS".
func Level(r tuner.Reading) string {
	db := core.LinearToDB(r.Level)
	if math.IsInf(db, -1) || math.IsNaN(db) {
		return "level -inf dBFS"
	}
	return fmt.Sprintf("level %.1f dBFS", db)
}

// IndicatorCell returns the bar cell of the indicator, 0 to BarCells-1.
func IndicatorCell(r tuner.Reading) int {
	return int(math.Round(r.Position() * (BarCells - 1)))
}

func centered(c canvas, w, y int, s string, style tcell.Style) {
	runes := []rune(s)
	x := max((w-len(runes))/2, 0)
	for i, ch := range runes {
		c.SetContent(x+i, y, ch, nil, style)
	}
}
