// Package tui drives a MapCanvas from a terminal: mouse strokes, key
// commands and a one-line status bar.
package tui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/labstack/gommon/log"

	"github.com/fukurin00/map_drawer/drawer"
	"github.com/fukurin00/map_drawer/export"
)

type prompt int

const (
	promptNone prompt = iota
	promptStart
	promptEnd
	promptExport
)

const DefaultExportPath = "map.pgm"

type App struct {
	ts     tcell.Screen
	screen *Screen
	canvas *drawer.MapCanvas

	resolution float64
	saver      export.Saver

	pressed bool
	lastPos drawer.Point

	prompt  prompt
	buffer  []rune
	start   string
	message string
}

// NewApp builds the canvas on top of an initialized tcell screen.
// A nil saver picks the format from the export path extension.
func NewApp(ts tcell.Screen, opts drawer.Options, resolution float64, saver export.Saver) *App {
	a := &App{ts: ts, resolution: resolution, saver: saver}
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = drawer.DefaultWidth
	}
	if h == 0 {
		h = drawer.DefaultHeight
	}
	a.screen = NewScreen(ts, w, h)
	a.canvas = drawer.New(opts, a.screen)
	return a
}

func (a *App) Canvas() *drawer.MapCanvas { return a.canvas }

// Run polls events until the user quits.
func (a *App) Run() error {
	a.ts.EnableMouse(tcell.MouseMotionEvents)
	a.render()
	for {
		ev := a.ts.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handleEvent(ev) {
			return nil
		}
		a.render()
	}
}

// handleEvent applies one event and reports whether to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Resize()
		a.ts.Sync()
	case *tcell.EventMouse:
		if a.prompt == promptNone {
			a.handleMouse(ev)
		}
	case *tcell.EventKey:
		if a.prompt != promptNone {
			a.handlePrompt(ev)
			return false
		}
		return a.handleKey(ev)
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if !a.screen.InCanvas(x, y) {
		return
	}
	p := a.screen.ToCanvas(x, y)
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !a.pressed:
		a.pressed = true
		a.lastPos = p
		a.canvas.BeginStroke(p)
	case down && a.pressed:
		if p == a.lastPos {
			return
		}
		a.lastPos = p
		a.canvas.ExtendStroke(p)
	case !down && a.pressed:
		a.pressed = false
		a.canvas.EndStroke()
	default:
		// hover moves the line preview
		if _, ok := a.canvas.Anchor(); ok {
			a.canvas.ExtendStroke(p)
		}
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'm':
		a.pressed = false
		a.message = "mode " + a.canvas.SwitchMode().String()
	case 'u':
		if _, ok := a.canvas.Undo(); ok {
			a.message = "undo"
		} else {
			a.message = "nothing to undo"
		}
	case 'c':
		a.pressed = false
		a.canvas.ClearAll()
		a.message = "cleared"
	case 'l':
		a.open(promptStart)
	case 'e':
		a.open(promptExport)
		a.buffer = []rune(DefaultExportPath)
	}
	return false
}

func (a *App) open(p prompt) {
	a.prompt = p
	a.buffer = a.buffer[:0]
}

func (a *App) handlePrompt(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt = promptNone
		a.message = "cancelled"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.buffer) > 0 {
			a.buffer = a.buffer[:len(a.buffer)-1]
		}
	case tcell.KeyEnter:
		a.submit(string(a.buffer))
	case tcell.KeyRune:
		a.buffer = append(a.buffer, ev.Rune())
	}
}

func (a *App) submit(text string) {
	switch a.prompt {
	case promptStart:
		a.start = text
		a.open(promptEnd)
		return
	case promptEnd:
		a.prompt = promptNone
		s, err := a.canvas.AddStrokeByCoordinates(a.start, text)
		var ferr *drawer.InputFormatError
		if errors.As(err, &ferr) {
			log.Warnf("line entry: %v", err)
			a.message = err.Error()
			return
		}
		a.message = fmt.Sprintf("line %v - %v", s.From, s.To)
	case promptExport:
		a.prompt = promptNone
		if err := a.export(text); err != nil {
			log.Errorf("export %s: %v", text, err)
			a.message = err.Error()
			return
		}
		a.message = "exported " + text
	}
}

func (a *App) export(path string) error {
	saver := a.saver
	if saver == nil {
		var err error
		if saver, err = export.SaverFor(path, a.resolution); err != nil {
			return err
		}
	}
	return saver.Save(path, a.canvas)
}

func (a *App) status() string {
	switch a.prompt {
	case promptStart:
		return "start x,y: " + string(a.buffer)
	case promptEnd:
		return "end x,y: " + string(a.buffer)
	case promptExport:
		return "export to: " + string(a.buffer)
	}
	s := fmt.Sprintf(" %s | strokes: %d", a.canvas.Mode(), len(a.canvas.History()))
	if p, ok := a.canvas.Anchor(); ok {
		s += fmt.Sprintf(" | anchor %v", p)
	}
	s += " | m mode  u undo  c clear  l line  e export  q quit"
	if a.message != "" {
		s += " | " + a.message
	}
	return s
}

func (a *App) render() {
	a.screen.Render(a.status())
}
