package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/birdsim/internal/experiment"
)

// WriteJSON writes the whole outcome: parameters, trajectory, metrics,
// collision and impact results.
func WriteJSON(w io.Writer, out *experiment.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return nil
}

func WriteJSONFile(path string, out *experiment.Outcome) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	if err := WriteJSON(file, out); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return nil
}
