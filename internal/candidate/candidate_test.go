package candidate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/hdf5"
)

func writeDataset(t *testing.T, f *hdf5.File, name string, rows, cols int, data []float64) {
	t.Helper()
	writeTyped(t, f, name, hdf5.T_NATIVE_DOUBLE, rows, cols, &data)
}

// writeTyped stores *data (a slice matching dtype) as a rows x cols dataset.
func writeTyped(t *testing.T, f *hdf5.File, name string, dtype *hdf5.Datatype, rows, cols int, data any) {
	t.Helper()
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(rows), uint(cols)}, nil)
	require.NoError(t, err)
	defer space.Close()
	ds, err := f.CreateDataset(name, dtype, space)
	require.NoError(t, err)
	defer ds.Close()
	require.NoError(t, ds.Write(data))
}

func writeStringAttr(t *testing.T, f *hdf5.File, name, v string) {
	t.Helper()
	root, err := f.OpenGroup("/")
	require.NoError(t, err)
	defer root.Close()
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	require.NoError(t, err)
	defer space.Close()
	dtype, err := hdf5.NewDatatypeFromValue(v)
	require.NoError(t, err)
	attr, err := root.CreateAttribute(name, dtype, space)
	require.NoError(t, err)
	defer attr.Close()
	require.NoError(t, attr.Write(&v, dtype))
}

func writeAttr(t *testing.T, f *hdf5.File, name string, v float64) {
	t.Helper()
	root, err := f.OpenGroup("/")
	require.NoError(t, err)
	defer root.Close()
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	require.NoError(t, err)
	defer space.Close()
	attr, err := root.CreateAttribute(name, hdf5.T_NATIVE_DOUBLE, space)
	require.NoError(t, err)
	defer attr.Close()
	require.NoError(t, attr.Write(&v, hdf5.T_NATIVE_DOUBLE))
}

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func writeCandidate(t *testing.T, build func(f *hdf5.File)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cand.h5")
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	build(f)
	require.NoError(t, f.Close())
	return path
}

func TestOpen(t *testing.T) {
	path := writeCandidate(t, func(f *hdf5.File) {
		writeDataset(t, f, FreqTimeDataset, 4, 3, ramp(12))
		writeDataset(t, f, DMTimeDataset, 2, 4, ramp(8))
		writeAttr(t, f, "dm", 56.7)
		writeAttr(t, f, "snr", 12)
		writeStringAttr(t, f, "cand_id", "cand_tstart_57000.1_dm_56.7")
	})

	t.Setenv("HDF5_USE_FILE_LOCKING", "TRUE")
	c, err := Open(path, Options{DisableFileLocking: true})
	require.NoError(t, err)
	assert.Equal(t, 4, c.FreqTime.Rows)
	assert.Equal(t, 3, c.FreqTime.Cols)
	assert.Equal(t, ramp(12), c.FreqTime.Data)
	assert.Equal(t, 2, c.DMTime.Rows)
	assert.Equal(t, 4, c.DMTime.Cols)

	assert.InDelta(t, 56.7, c.Meta.DM, 1e-12)
	assert.InDelta(t, 12, c.Meta.SNR, 1e-12)
	assert.Zero(t, c.Meta.TSamp)
	assert.Equal(t, "cand_tstart_57000.1_dm_56.7", c.Meta.CandID)
	assert.Equal(t, []string{"cand_id", "dm", "snr"}, c.Meta.Present)
	assert.Equal(t, "TRUE", os.Getenv("HDF5_USE_FILE_LOCKING"), "locking setting must be restored")
}

func TestOpenFloat32Dataset(t *testing.T) {
	want := []float64{0.5, -1.25, 3, 1e6, -7.75, 2}
	stored := make([]float32, len(want))
	for i, v := range want {
		stored[i] = float32(v)
	}
	path := writeCandidate(t, func(f *hdf5.File) {
		writeTyped(t, f, FreqTimeDataset, hdf5.T_NATIVE_FLOAT, 3, 2, &stored)
		writeDataset(t, f, DMTimeDataset, 2, 2, ramp(4))
	})

	c, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, c.FreqTime.Rows)
	assert.Equal(t, 2, c.FreqTime.Cols)
	assert.Equal(t, want, c.FreqTime.Data)
}

func TestOpenRejectsIntegerDataset(t *testing.T) {
	stored := []int32{1, 2, 3, 4}
	path := writeCandidate(t, func(f *hdf5.File) {
		writeTyped(t, f, FreqTimeDataset, hdf5.T_NATIVE_INT32, 2, 2, &stored)
		writeDataset(t, f, DMTimeDataset, 2, 2, ramp(4))
	})

	_, err := Open(path, Options{})
	assert.ErrorIs(t, err, ErrInput)
}

func TestOpenLeavesLockingUnset(t *testing.T) {
	path := writeCandidate(t, func(f *hdf5.File) {
		writeDataset(t, f, FreqTimeDataset, 2, 2, ramp(4))
		writeDataset(t, f, DMTimeDataset, 2, 2, ramp(4))
	})
	t.Setenv("HDF5_USE_FILE_LOCKING", "")
	require.NoError(t, os.Unsetenv("HDF5_USE_FILE_LOCKING"))

	_, err := Open(path, Options{DisableFileLocking: true})
	require.NoError(t, err)
	_, set := os.LookupEnv("HDF5_USE_FILE_LOCKING")
	assert.False(t, set)
}

func TestMetaLogValue(t *testing.T) {
	m := Meta{CandID: "c1", DM: 3, Width: 2, Present: []string{"cand_id", "dm", "width"}}
	attrs := m.LogValue().Group()
	require.Len(t, attrs, 3)
	assert.Equal(t, "cand_id", attrs[0].Key)
	assert.Equal(t, "c1", attrs[0].Value.String())
	assert.Equal(t, "dm", attrs[1].Key)
	assert.Equal(t, "width", attrs[2].Key)
	assert.InDelta(t, 2, attrs[2].Value.Float64(), 0)
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.h5"), Options{})
		assert.ErrorIs(t, err, ErrInput)
	})
	t.Run("not hdf5", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.h5")
		require.NoError(t, os.WriteFile(path, []byte("not a candidate"), 0o644))
		_, err := Open(path, Options{})
		assert.ErrorIs(t, err, ErrInput)
	})
	t.Run("missing dataset", func(t *testing.T) {
		path := writeCandidate(t, func(f *hdf5.File) {
			writeDataset(t, f, FreqTimeDataset, 2, 2, ramp(4))
		})
		_, err := Open(path, Options{})
		assert.ErrorIs(t, err, ErrInput)
	})
	t.Run("not 2-D", func(t *testing.T) {
		path := writeCandidate(t, func(f *hdf5.File) {
			space, err := hdf5.CreateSimpleDataspace([]uint{6}, nil)
			require.NoError(t, err)
			defer space.Close()
			ds, err := f.CreateDataset(FreqTimeDataset, hdf5.T_NATIVE_DOUBLE, space)
			require.NoError(t, err)
			data := ramp(6)
			require.NoError(t, ds.Write(&data))
			require.NoError(t, ds.Close())
			writeDataset(t, f, DMTimeDataset, 2, 2, ramp(4))
		})
		_, err := Open(path, Options{})
		assert.ErrorIs(t, err, ErrInput)
	})
}
