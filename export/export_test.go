package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tdewolff/test"

	"github.com/fukurin00/map_drawer/drawer"
)

func drawn() *drawer.MapCanvas {
	m := drawer.New(drawer.Options{Width: 120, Height: 80, Borders: true}, nil)
	m.AddStroke(drawer.Point{X: 10, Y: 10}, drawer.Point{X: 50, Y: 10})
	m.AddStroke(drawer.Point{X: 50, Y: 10}, drawer.Point{X: 50, Y: 50})
	return m
}

func TestSidecarLiteral(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewMetadata("/tmp/floor.pgm", ResolutionStandard).WriteTo(&buf)
	test.Error(t, err)
	test.T(t, buf.String(), "image: /tmp/floor.pgm\nresolution: 0.01\norigin: [0.0, 0.0, 0.0]\nnegate: 0\noccupied_thresh: 0.65\nfree_thresh: 0.196\n")
	test.T(t, n, int64(buf.Len()))

	buf.Reset()
	_, err = NewMetadata("fine.pgm", ResolutionFine).WriteTo(&buf)
	test.Error(t, err)
	test.That(t, strings.Contains(buf.String(), "\nresolution: 0.005\n"), buf.String())
}

func TestSidecarPath(t *testing.T) {
	var tests = []struct {
		image string
		yaml  string
	}{
		{"map.pgm", "map.yaml"},
		{"/a/b/floor.plan.pgm", "/a/b/floor.plan.yaml"},
		{"noext", "noext.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			test.T(t, SidecarPath(tt.image), tt.yaml)
		})
	}
}

func TestReadMetadata(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewMetadata("map.pgm", ResolutionFine).WriteTo(&buf)
	test.Error(t, err)

	m, err := ReadMetadata(&buf)
	test.Error(t, err)
	test.T(t, m.Image, "map.pgm")
	test.Float(t, m.Resolution, 0.005)
	test.T(t, len(m.Origin), 3)
	test.T(t, m.Negate, 0)
	test.Float(t, m.OccupiedThresh, 0.65)
	test.Float(t, m.FreeThresh, 0.196)

	_, err = ReadMetadata(strings.NewReader("resolution: 0.01\n"))
	test.That(t, err != nil, "missing image")
	_, err = ReadMetadata(strings.NewReader("image: a.pgm\nresolution: 0\n"))
	test.That(t, err != nil, "zero resolution")
	_, err = ReadMetadata(strings.NewReader("image: [\n"))
	test.That(t, err != nil, "broken yaml")
}

func TestSave(t *testing.T) {
	m := drawn()
	snap := m.Snapshot()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "floor.pgm")

	yamlPath, err := Save(imagePath, snap, ResolutionStandard)
	test.Error(t, err)
	test.T(t, yamlPath, filepath.Join(dir, "floor.yaml"))

	data, err := os.ReadFile(imagePath)
	test.Error(t, err)
	test.That(t, bytes.HasPrefix(data, []byte("P5")), "binary pgm header")

	img, _, err := image.Decode(bytes.NewReader(data))
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), 120)
	test.T(t, img.Bounds().Dy(), 80)
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			want := uint8(drawer.Free)
			if snap.Occupied(x, y) {
				want = drawer.Occupied
			}
			if g != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, g, want)
			}
		}
	}

	side, err := os.ReadFile(yamlPath)
	test.Error(t, err)
	test.That(t, strings.HasPrefix(string(side), "image: "+imagePath+"\n"), string(side))
	test.T(t, strings.Count(string(side), "\n"), 6)

	// export never mutates the model
	test.That(t, m.Snapshot().Equal(snap))
}

func TestSaveUnwritable(t *testing.T) {
	_, err := Save(filepath.Join(t.TempDir(), "missing", "floor.pgm"), drawn().Snapshot(), ResolutionStandard)
	test.That(t, err != nil)
	test.That(t, errors.Is(err, os.ErrNotExist), err)
}

func TestOccupancyGrid(t *testing.T) {
	m := drawer.New(drawer.Options{Width: 4, Height: 3, Thickness: 1}, nil)
	m.AddStroke(drawer.Point{X: 0, Y: 0}, drawer.Point{X: 3, Y: 0})

	stamp := time.Unix(100, 5)
	g := NewOccupancyGrid(m.Snapshot(), ResolutionStandard, stamp)
	test.T(t, g.Info.Width, uint32(4))
	test.T(t, g.Info.Height, uint32(3))
	test.T(t, g.Header.Stamp, Time{Secs: 100, Nsecs: 5})
	test.T(t, g.Info.Origin.Orientation.W, 1.0)

	// image row 0 ends up last
	test.T(t, g.Data, []int8{0, 0, 0, 0, 0, 0, 0, 0, 100, 100, 100, 100})

	data, err := g.MarshalPayload()
	test.Error(t, err)
	var back map[string]interface{}
	test.Error(t, json.Unmarshal(data, &back))
	test.That(t, strings.Contains(string(data), `"data":[0,0,0,0,0,0,0,0,100,100,100,100]`), string(data))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"pgm", FormatPGM, false},
		{".PGM", FormatPGM, false},
		{"yaml", FormatPGM, false},
		{"pdf", FormatPDF, false},
		{"json", FormatJSON, false},
		{"png", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			test.T(t, err != nil, tt.wantErr)
			if err != nil {
				test.That(t, errors.Is(err, ErrUnknownFormat), err)
			}
			test.T(t, got, tt.expected)
		})
	}
}

func TestSavers(t *testing.T) {
	m := drawn()
	dir := t.TempDir()
	for _, format := range AvailableFormats() {
		t.Run(string(format), func(t *testing.T) {
			s, err := NewSaver(format, ResolutionStandard)
			test.Error(t, err)
			path := filepath.Join(dir, "map"+s.FileExtension())
			test.Error(t, s.Save(path, m))

			info, err := os.Stat(path)
			test.Error(t, err)
			test.That(t, info.Size() > 0, "empty output")

			byExt, err := SaverFor(path, ResolutionStandard)
			test.Error(t, err)
			test.T(t, byExt.FileExtension(), s.FileExtension())
		})
	}

	_, err := NewSaver("svg", ResolutionStandard)
	test.That(t, errors.Is(err, ErrUnknownFormat))
	_, err = SaverFor("map.svg", ResolutionStandard)
	test.That(t, errors.Is(err, ErrUnknownFormat))
}

func TestWritePDF(t *testing.T) {
	m := drawn()
	var buf bytes.Buffer
	strokes := append(m.Borders(), m.History()...)
	test.Error(t, WritePDF(&buf, strokes, 120, 80, ResolutionFine))
	test.That(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "pdf header")

	test.That(t, WritePDF(&buf, nil, 0, 80, ResolutionFine) != nil, "zero width")
}

func TestBrokerURL(t *testing.T) {
	test.T(t, brokerURL("localhost"), "tcp://localhost:1883")
	test.T(t, brokerURL("10.0.0.2:1884"), "tcp://10.0.0.2:1884")
	test.T(t, brokerURL("tcp://broker"), "tcp://broker:1883")
}
