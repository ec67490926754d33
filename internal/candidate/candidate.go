// Package candidate reads pulse candidate files stored as HDF5.
//
// A candidate holds two 2-D datasets, data_freq_time (time x frequency,
// highest channel first) and data_dm_time, plus optional numeric attributes
// on the root group.
package candidate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/hdf5"

	"github.com/cwbudde/algo-joyplot/dsp/grid"
)

// Dataset names.
const (
	FreqTimeDataset = "data_freq_time"
	DMTimeDataset   = "data_dm_time"
)

const candIDAttr = "cand_id"

// ErrInput is returned when the file or one of its datasets cannot be used.
var ErrInput = errors.New("candidate: invalid input")

// Options control how the file is opened.
type Options struct {
	// DisableFileLocking turns off HDF5 file locking while the file is
	// opened, for files on filesystems without lock support. The library
	// reads HDF5_USE_FILE_LOCKING from the environment, so it is set for the
	// duration of the open call and restored afterwards.
	DisableFileLocking bool
}

// Meta holds the root attributes. Missing attributes stay zero and are not
// listed in Present.
type Meta struct {
	CandID  string
	FCh1    float64
	FOff    float64
	NChans  float64
	DM      float64
	TSamp   float64
	DMOpt   float64
	SNR     float64
	SNROpt  float64
	Width   float64
	Present []string
}

func (m *Meta) fields() []struct {
	name string
	dst  *float64
} {
	return []struct {
		name string
		dst  *float64
	}{
		{"fch1", &m.FCh1},
		{"foff", &m.FOff},
		{"nchans", &m.NChans},
		{"dm", &m.DM},
		{"tsamp", &m.TSamp},
		{"dm_opt", &m.DMOpt},
		{"snr", &m.SNR},
		{"snr_opt", &m.SNROpt},
		{"width", &m.Width},
	}
}

// LogValue renders the present attributes as a group.
func (m Meta) LogValue() slog.Value {
	present := make(map[string]bool, len(m.Present))
	for _, name := range m.Present {
		present[name] = true
	}
	var attrs []slog.Attr
	if present[candIDAttr] {
		attrs = append(attrs, slog.String(candIDAttr, m.CandID))
	}
	for _, f := range m.fields() {
		if present[f.name] {
			attrs = append(attrs, slog.Float64(f.name, *f.dst))
		}
	}
	return slog.GroupValue(attrs...)
}

// Candidate is the content of one file.
type Candidate struct {
	// FreqTime is the stored frequency/time array, rows are time samples.
	FreqTime *grid.Grid[float64]
	DMTime   *grid.Grid[float64]
	Meta     Meta
}

// Open reads the candidate at path.
func Open(path string, opts Options) (*Candidate, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}

	f, err := openFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInput, path, err)
	}
	defer f.Close()

	freqTime, err := readMatrix(f, FreqTimeDataset)
	if err != nil {
		return nil, err
	}
	dmTime, err := readMatrix(f, DMTimeDataset)
	if err != nil {
		return nil, err
	}

	c := &Candidate{FreqTime: freqTime, DMTime: dmTime}
	if err := readMeta(f, &c.Meta); err != nil {
		return nil, err
	}
	return c, nil
}

const lockingEnv = "HDF5_USE_FILE_LOCKING"

func openFile(path string, opts Options) (*hdf5.File, error) {
	if opts.DisableFileLocking {
		prev, had := os.LookupEnv(lockingEnv)
		if err := os.Setenv(lockingEnv, "FALSE"); err != nil {
			return nil, fmt.Errorf("candidate: disable file locking: %w", err)
		}
		defer func() {
			if had {
				_ = os.Setenv(lockingEnv, prev)
			} else {
				_ = os.Unsetenv(lockingEnv)
			}
		}()
	}
	return hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
}

func readMatrix(f *hdf5.File, name string) (*grid.Grid[float64], error) {
	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %w", ErrInput, name, err)
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %w", ErrInput, name, err)
	}
	if len(dims) != 2 || dims[0] == 0 || dims[1] == 0 {
		return nil, fmt.Errorf("%w: dataset %s has shape %v, want 2-D", ErrInput, name, dims)
	}

	rows, cols := int(dims[0]), int(dims[1])

	// Dataset.Read transfers in the stored type, so the buffer must match it.
	dt, err := ds.Datatype()
	if err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %w", ErrInput, name, err)
	}
	defer dt.Close()
	if dt.Class() != hdf5.T_FLOAT {
		return nil, fmt.Errorf("%w: dataset %s is not floating point", ErrInput, name)
	}

	switch dt.Size() {
	case 4:
		data := make([]float32, rows*cols)
		if err := ds.Read(&data); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrInput, name, err)
		}
		g, err := grid.FromData(rows, cols, data)
		if err != nil {
			return nil, err
		}
		return grid.Convert[float64](g), nil
	case 8:
		data := make([]float64, rows*cols)
		if err := ds.Read(&data); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrInput, name, err)
		}
		return grid.FromData(rows, cols, data)
	default:
		return nil, fmt.Errorf("%w: dataset %s has %d-byte floats", ErrInput, name, dt.Size())
	}
}

func readMeta(f *hdf5.File, m *Meta) error {
	root, err := f.OpenGroup("/")
	if err != nil {
		return fmt.Errorf("%w: root group: %w", ErrInput, err)
	}
	defer root.Close()

	if attr, err := root.OpenAttribute(candIDAttr); err == nil {
		var id string
		if err := attr.Read(&id, hdf5.T_GO_STRING); err == nil {
			m.CandID = id
			m.Present = append(m.Present, candIDAttr)
		}
		attr.Close()
	}

	for _, field := range m.fields() {
		attr, err := root.OpenAttribute(field.name)
		if err != nil {
			continue
		}
		var v float64
		err = attr.Read(&v, hdf5.T_NATIVE_DOUBLE)
		attr.Close()
		if err != nil {
			continue
		}
		*field.dst = v
		m.Present = append(m.Present, field.name)
	}
	return nil
}
