// Package export writes a drawn map in the formats the navigation side
// consumes: the map_server image and sidecar pair, a printable sheet and
// an OccupancyGrid message.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fukurin00/map_drawer/drawer"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Format represents an export format
type Format string

const (
	// FormatPGM writes the image and its yaml sidecar
	FormatPGM Format = "pgm"
	// FormatPDF writes a printable A4 sheet
	FormatPDF Format = "pdf"
	// FormatJSON writes a nav_msgs/OccupancyGrid as JSON
	FormatJSON Format = "json"
)

// Source is what a Saver reads. *drawer.MapCanvas satisfies it.
type Source interface {
	Snapshot() *drawer.Snapshot
	History() []drawer.Stroke
	Borders() []drawer.Stroke
	Size() (int, int)
}

// Saver writes a map to path.
type Saver interface {
	Save(path string, src Source) error
	// FileExtension returns the recommended file extension, dot included
	FileExtension() string
}

// NewSaver creates a saver for the specified format
func NewSaver(format Format, resolution float64) (Saver, error) {
	switch format {
	case FormatPGM:
		return MapSaver{Resolution: resolution}, nil
	case FormatPDF:
		return PDFSaver{Resolution: resolution}, nil
	case FormatJSON:
		return GridSaver{Resolution: resolution}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "pgm", "map", "yaml":
		return FormatPGM, nil
	case "pdf":
		return FormatPDF, nil
	case "json", "grid":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// SaverFor picks a saver from the extension of path.
func SaverFor(path string, resolution float64) (Saver, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewSaver(format, resolution)
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{FormatPGM, FormatPDF, FormatJSON}
}

type MapSaver struct {
	Resolution float64
}

func (s MapSaver) Save(path string, src Source) error {
	_, err := Save(path, src.Snapshot(), s.Resolution)
	return err
}

func (MapSaver) FileExtension() string { return ".pgm" }

type PDFSaver struct {
	Resolution float64
}

func (s PDFSaver) Save(path string, src Source) error {
	w, h := src.Size()
	strokes := append(src.Borders(), src.History()...)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write map sheet: %w", err)
	}
	if err := WritePDF(f, strokes, w, h, s.Resolution); err != nil {
		f.Close()
		return fmt.Errorf("write map sheet: %w", err)
	}
	return f.Close()
}

func (PDFSaver) FileExtension() string { return ".pdf" }

type GridSaver struct {
	Resolution float64
}

func (s GridSaver) Save(path string, src Source) error {
	data, err := NewOccupancyGrid(src.Snapshot(), s.Resolution, time.Now()).MarshalPayload()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write occupancy grid: %w", err)
	}
	return nil
}

func (GridSaver) FileExtension() string { return ".json" }
