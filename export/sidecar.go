package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	ResolutionStandard = 0.01  // 1 px = 1 cm
	ResolutionFine     = 0.005 // 1 px = 5 mm

	OccupiedThresh = 0.65
	FreeThresh     = 0.196
)

// Metadata is the ROS map_server description that accompanies the image.
type Metadata struct {
	Image          string    `yaml:"image"`
	Resolution     float64   `yaml:"resolution"`
	Origin         []float64 `yaml:"origin"`
	Negate         int       `yaml:"negate"`
	OccupiedThresh float64   `yaml:"occupied_thresh"`
	FreeThresh     float64   `yaml:"free_thresh"`
}

func NewMetadata(imagePath string, resolution float64) Metadata {
	return Metadata{
		Image:          imagePath,
		Resolution:     resolution,
		Origin:         []float64{0, 0, 0},
		OccupiedThresh: OccupiedThresh,
		FreeThresh:     FreeThresh,
	}
}

// WriteTo writes the six-line sidecar. Only image and resolution vary;
// the remaining lines are the fixed literals map_server expects.
func (m Metadata) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w,
		"image: %s\nresolution: %s\norigin: [0.0, 0.0, 0.0]\nnegate: 0\noccupied_thresh: 0.65\nfree_thresh: 0.196\n",
		m.Image, strconv.FormatFloat(m.Resolution, 'f', -1, 64))
	return int64(n), err
}

// ReadMetadata parses a sidecar file.
func ReadMetadata(r io.Reader) (Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Metadata{}, err
	}
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("parse map yaml: %w", err)
	}
	if m.Image == "" {
		return Metadata{}, fmt.Errorf("map yaml has no image")
	}
	if m.Resolution <= 0 {
		return Metadata{}, fmt.Errorf("map yaml resolution %v is not positive", m.Resolution)
	}
	return m, nil
}

// SidecarPath swaps the image extension for .yaml.
func SidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".yaml"
}
