package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/birdsim/internal/flight"
)

// ErrExportIO marks failures writing or reading an export. They never
// affect the trajectory being exported.
var ErrExportIO = errors.New("export: io failure")

// Format describes a tabular trajectory layout. Precision is the number
// of decimals written; -1 writes the shortest exact representation.
type Format struct {
	Delimiter rune
	Header    []string
	Precision int
}

var (
	Standard  = Format{Delimiter: ',', Header: []string{"Time", "X", "Y", "Speed"}, Precision: 2}
	Localized = Format{Delimiter: ';', Header: []string{"Время", "X", "Y", "Скорость"}, Precision: 2}
	// Raw keeps full precision for round trips.
	Raw = Format{Delimiter: ',', Header: []string{"Time", "X", "Y", "Speed"}, Precision: -1}
)

func (f Format) format(v float64) string {
	return strconv.FormatFloat(v, 'f', f.Precision, 64)
}

// WriteCSV writes one header row and one row per sample.
func WriteCSV(w io.Writer, traj flight.Trajectory, f Format) error {
	cw := csv.NewWriter(w)
	cw.Comma = f.Delimiter

	if err := cw.Write(f.Header); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	for _, s := range traj {
		row := []string{f.format(s.Time), f.format(s.X), f.format(s.Y), f.format(s.Speed)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrExportIO, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return nil
}

func WriteFile(path string, traj flight.Trajectory, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	if err := WriteCSV(file, traj, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return nil
}

// ReadCSV parses a trajectory written by WriteCSV with the same format.
func ReadCSV(r io.Reader, f Format) (flight.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.Comma = f.Delimiter
	cr.FieldsPerRecord = len(f.Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	if len(records) < 2 {
		return flight.Trajectory{}, nil
	}

	traj := make(flight.Trajectory, 0, len(records)-1)
	for i, rec := range records[1:] {
		var vals [4]float64
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrExportIO, i+1, err)
			}
			vals[j] = v
		}
		traj = append(traj, flight.Sample{Time: vals[0], X: vals[1], Y: vals[2], Speed: vals[3]})
	}
	return traj, nil
}

func ReadFile(path string, f Format) (flight.Trajectory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	defer file.Close()
	return ReadCSV(file, f)
}
