package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/test"

	"github.com/fukurin00/map_drawer/drawer"
	"github.com/fukurin00/map_drawer/export"
)

func canvas() *drawer.MapCanvas {
	return drawer.New(drawer.Options{Width: 100, Height: 80, Borders: true}, nil)
}

func TestRunLines(t *testing.T) {
	m := canvas()
	r := New(m, export.ResolutionStandard)
	err := r.Run(strings.NewReader(`
# a room corner
line 10,10 50,10
line 50,10 50,50   # trailing comment
line 10;10 20,20
undo
line 50,10 50,50
`))
	test.Error(t, err)
	test.T(t, r.Skipped, 1)

	h := m.History()
	test.T(t, len(h), 2)
	test.T(t, h[1].From, drawer.Point{X: 50, Y: 10})
	test.T(t, h[1].To, drawer.Point{X: 50, Y: 50})
}

func TestRunModes(t *testing.T) {
	m := canvas()
	r := New(m, export.ResolutionStandard)
	test.Error(t, r.Run(strings.NewReader("mode freehand\ndown 10,10\nmove 12,10\nmove 14,10\nup\nmove 30,30\n")))
	test.T(t, len(m.History()), 2)
	test.That(t, !m.Drawing())

	test.Error(t, r.Run(strings.NewReader("mode toggle\ndown 20,20\nmove 25,25\n")))
	test.T(t, m.Mode(), drawer.ModeTwoClick)
	a, ok := m.Anchor()
	test.That(t, ok)
	test.T(t, a, drawer.Point{X: 20, Y: 20})

	test.Error(t, r.Run(strings.NewReader("up\ndown 40,20\n")))
	test.T(t, len(m.History()), 3)
	_, ok = m.Anchor()
	test.That(t, !ok)

	test.Error(t, r.Run(strings.NewReader("mode line\ndown 1,1\nmode freehand\n")))
	_, ok = m.Anchor()
	test.That(t, !ok, "mode switch cancels the anchor")

	test.Error(t, r.Run(strings.NewReader("clear\n")))
	test.T(t, len(m.History()), 0)
}

func TestRunErrors(t *testing.T) {
	var tests = []struct {
		src  string
		line int
		err  error
	}{
		{"line 1,1 2,2\npaint 1,1\n", 2, ErrUnknownCommand},
		{"undo now\n", 1, ErrArguments},
		{"\n\nline 1,1\n", 3, ErrArguments},
		{"up\nmode sideways\n", 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			err := New(canvas(), export.ResolutionStandard).Run(strings.NewReader(tt.src))
			test.That(t, err != nil)
			test.That(t, strings.HasPrefix(err.Error(), fmt.Sprintf("line %d:", tt.line)), err)
			if tt.err != nil {
				test.That(t, errors.Is(err, tt.err), err)
			}
		})
	}
}

func TestExport(t *testing.T) {
	m := canvas()
	r := New(m, export.ResolutionFine)
	dir := t.TempDir()
	pgm := filepath.Join(dir, "room.pgm")
	pdf := filepath.Join(dir, "room.pdf")

	test.Error(t, r.Run(strings.NewReader("line 10,10 50,10\nexport "+pgm+"\nexport "+pdf+"\n")))
	test.T(t, r.Exported, []string{pgm, pdf})

	side, err := os.ReadFile(filepath.Join(dir, "room.yaml"))
	test.Error(t, err)
	test.That(t, strings.Contains(string(side), "resolution: 0.005\n"))
	_, err = os.Stat(pdf)
	test.Error(t, err)

	err = r.Run(strings.NewReader("export " + filepath.Join(dir, "room.bmp") + "\n"))
	test.That(t, errors.Is(err, export.ErrUnknownFormat), err)

	r.Saver = export.GridSaver{Resolution: export.ResolutionFine}
	grid := filepath.Join(dir, "room.anything")
	test.Error(t, r.Exec("export "+grid))
	_, err = os.Stat(grid)
	test.Error(t, err)
}

func TestHashInArgument(t *testing.T) {
	m := canvas()
	r := New(m, export.ResolutionStandard)
	dir := t.TempDir()
	path := filepath.Join(dir, "room#1.pgm")

	test.Error(t, r.Run(strings.NewReader("line 10,10 50,10\t# wall\nexport "+path+" # first\n#export nowhere.pgm\n")))
	test.T(t, r.Exported, []string{path})
	_, err := os.Stat(path)
	test.Error(t, err)
	_, err = os.Stat(filepath.Join(dir, "room#1.yaml"))
	test.Error(t, err)
	test.T(t, len(m.History()), 1)
}

func TestStripComment(t *testing.T) {
	var tests = []struct {
		line string
		want string
	}{
		{"# all comment", ""},
		{"undo # trailing", "undo "},
		{"undo\t#tab", "undo\t"},
		{"export maps/#1.pgm", "export maps/#1.pgm"},
		{"export a#b.pgm #c", "export a#b.pgm "},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			test.T(t, stripComment(tt.line), tt.want)
		})
	}
}
