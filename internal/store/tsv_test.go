package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/particle-life-field/internal/force"
	"github.com/olivierh59500/particle-life-field/internal/particle"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

var saved = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

func TestParticlesFileLayout(t *testing.T) {
	ps := []particle.Particle{
		{Position: vec.New(0.25, 0.5, 0), Velocity: vec.New(-0.01, 0.002, 0), Type: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteParticles(&buf, ps, NewMeta(saved)))

	want := "# saved: 2025-06-01T08:30:00Z\n" +
		"# version: 1.0\n" +
		"x\ty\tvx\tvy\ttype\n" +
		"0.25\t0.5\t-0.01\t0.002\t3\n"
	assert.Equal(t, want, buf.String())

	got, meta, err := ReadParticles(&buf)
	require.NoError(t, err)
	assert.Equal(t, ps, got)
	assert.Equal(t, FormatVersion, meta["version"])
}

func TestReadParticlesTolerance(t *testing.T) {
	in := "# note: legacy file\n\nx\ty\tvx\tvy\tcolor\n0.1\t0.2\t0\t0\t1\t extra\n"
	ps, meta, err := ReadParticles(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, 1, ps[0].Type)
	assert.Equal(t, "legacy file", meta["note"])
}

func TestReadParticlesErrors(t *testing.T) {
	tests := map[string]string{
		"short row":     "0.1\t0.2\t0\n",
		"bad float":     "0.1\tabc\t0\t0\t1\n",
		"bad type":      "0.1\t0.2\t0\t0\tred\n",
		"negative type": "0.1\t0.2\t0\t0\t-2\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ReadParticles(strings.NewReader("x\ty\tvx\tvy\ttype\n" + in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestMatrixFile(t *testing.T) {
	m := force.Matrix{{0.5, -1}, {1, 0.125}}
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m, Meta{"types": "2"}))
	assert.Equal(t, "# types: 2\n0.5\t-1\n1\t0.125\n", buf.String())

	got, meta, err := ReadMatrix(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, "2", meta["types"])
}

func TestReadMatrixRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "0.5\t0.1\n0.2\n", "2\n", "0.1\tx\n0.1\t0.1\n"} {
		_, _, err := ReadMatrix(strings.NewReader(in))
		assert.Error(t, err, "%q", in)
	}
}

func TestSaveAndLoadFiles(t *testing.T) {
	dir := t.TempDir()
	ppath := filepath.Join(dir, "nested", "particles.tsv")
	mpath := filepath.Join(dir, "matrix.tsv")

	ps := []particle.Particle{{Position: vec.New(0.1, 0.9, 0), Type: 0}, {Position: vec.New(0.7, 0.3, 0), Type: 1}}
	require.NoError(t, SaveParticles(ppath, ps, NewMeta(saved)))
	got, _, err := LoadParticles(ppath)
	require.NoError(t, err)
	assert.Equal(t, ps, got)

	m := force.NewMatrix(2)
	require.NoError(t, SaveMatrix(mpath, m, nil))
	gm, _, err := LoadMatrix(mpath)
	require.NoError(t, err)
	assert.Equal(t, m, gm)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")

	_, _, err = LoadParticles(filepath.Join(dir, "missing.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
