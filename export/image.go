package export

import (
	"fmt"
	"io"
	"os"

	pnm "github.com/jbuchbinder/gopnm"
	"github.com/labstack/gommon/log"

	"github.com/fukurin00/map_drawer/drawer"
)

// WriteImage encodes the snapshot as a binary PGM, 255 free and 0
// occupied.
func WriteImage(w io.Writer, snap *drawer.Snapshot) error {
	return pnm.Encode(w, snap.Image(), pnm.PGM)
}

// Save writes the image to imagePath and its sidecar next to it, and
// returns the sidecar path.
func Save(imagePath string, snap *drawer.Snapshot, resolution float64) (string, error) {
	if err := writeFile(imagePath, func(w io.Writer) error {
		return WriteImage(w, snap)
	}); err != nil {
		return "", fmt.Errorf("write map image: %w", err)
	}

	yamlPath := SidecarPath(imagePath)
	meta := NewMetadata(imagePath, resolution)
	if err := writeFile(yamlPath, func(w io.Writer) error {
		_, err := meta.WriteTo(w)
		return err
	}); err != nil {
		return "", fmt.Errorf("write map yaml: %w", err)
	}

	log.Infof("exported %dx%d map to %s (%s)", snap.Width(), snap.Height(), imagePath, yamlPath)
	return yamlPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
