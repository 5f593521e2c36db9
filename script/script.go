// Package script replays a drawing session from a line-oriented command
// file, one input event per line:
//
//	# comment
//	mode freehand|line|toggle
//	down x,y
//	move x,y
//	up
//	line x1,y1 x2,y2
//	undo
//	clear
//	export path
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/fukurin00/map_drawer/drawer"
	"github.com/fukurin00/map_drawer/export"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArguments      = errors.New("wrong number of arguments")
)

type Runner struct {
	canvas *drawer.MapCanvas

	// Saver writes export commands. When nil the format is picked from
	// the file extension.
	Saver      export.Saver
	Resolution float64

	// Exported lists the paths written so far.
	Exported []string
	// Skipped counts commands dropped for malformed coordinates.
	Skipped int
}

func New(canvas *drawer.MapCanvas, resolution float64) *Runner {
	return &Runner{canvas: canvas, Resolution: resolution}
}

// Run executes every line of r and stops at the first error that is not
// a coordinate format error.
func (r *Runner) Run(rd io.Reader) error {
	sc := bufio.NewScanner(rd)
	n := 0
	for sc.Scan() {
		n++
		if err := r.Exec(sc.Text()); err != nil {
			var ferr *drawer.InputFormatError
			if errors.As(err, &ferr) {
				log.Warnf("line %d: %v, skipped", n, err)
				r.Skipped++
				continue
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// Exec runs a single command.
func (r *Runner) Exec(line string) error {
	line = stripComment(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "mode":
		if err := arity(cmd, args, 1); err != nil {
			return err
		}
		if args[0] == "toggle" {
			r.canvas.SwitchMode()
			break
		}
		mode, ok := drawer.ParseMode(args[0])
		if !ok {
			return fmt.Errorf("unknown mode %q", args[0])
		}
		r.canvas.SetMode(mode)
	case "down", "move":
		if err := arity(cmd, args, 1); err != nil {
			return err
		}
		p, err := drawer.ParsePoint("point", args[0])
		if err != nil {
			return err
		}
		if cmd == "down" {
			r.canvas.BeginStroke(p)
		} else {
			r.canvas.ExtendStroke(p)
		}
	case "up":
		if err := arity(cmd, args, 0); err != nil {
			return err
		}
		r.canvas.EndStroke()
	case "line":
		if err := arity(cmd, args, 2); err != nil {
			return err
		}
		if _, err := r.canvas.AddStrokeByCoordinates(args[0], args[1]); err != nil {
			return err
		}
	case "undo":
		if err := arity(cmd, args, 0); err != nil {
			return err
		}
		r.canvas.Undo()
	case "clear":
		if err := arity(cmd, args, 0); err != nil {
			return err
		}
		r.canvas.ClearAll()
	case "export":
		if err := arity(cmd, args, 1); err != nil {
			return err
		}
		return r.Export(args[0])
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}
	return nil
}

// Export writes the current canvas to path.
func (r *Runner) Export(path string) error {
	saver := r.Saver
	if saver == nil {
		var err error
		if saver, err = export.SaverFor(path, r.Resolution); err != nil {
			return err
		}
	}
	if err := saver.Save(path, r.canvas); err != nil {
		return err
	}
	r.Exported = append(r.Exported, path)
	return nil
}

// stripComment drops a '#' comment. Only a '#' that starts the line or
// follows whitespace opens one, so paths like maps/#1.pgm survive.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

func arity(cmd string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrArguments, cmd, n, len(args))
	}
	return nil
}
