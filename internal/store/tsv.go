// Package store persists particle sets and coefficient matrices as
// tab-separated text. Files may open with "# key: value" metadata lines;
// particle files also carry a column header.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olivierh59500/particle-life-field/internal/force"
	"github.com/olivierh59500/particle-life-field/internal/particle"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// FormatVersion is written to the metadata of every saved file.
const FormatVersion = "1.0"

const particleHeader = "x\ty\tvx\tvy\ttype"

// Meta is the "# key: value" metadata block.
type Meta map[string]string

// NewMeta returns metadata stamped with the format version and time.
func NewMeta(saved time.Time) Meta {
	return Meta{
		"version": FormatVersion,
		"saved":   saved.UTC().Format(time.RFC3339),
	}
}

func writeMeta(w *bufio.Writer, meta Meta) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "# %s: %s\n", k, meta[k])
	}
}

func parseMeta(line string, meta Meta) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	k, v, ok := strings.Cut(body, ":")
	if !ok {
		return
	}
	meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteParticles writes ps with the given metadata.
func WriteParticles(w io.Writer, ps []particle.Particle, meta Meta) error {
	bw := bufio.NewWriter(w)
	writeMeta(bw, meta)
	bw.WriteString(particleHeader + "\n")
	for _, p := range ps {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\n",
			formatFloat(p.Position.X), formatFloat(p.Position.Y),
			formatFloat(p.Velocity.X), formatFloat(p.Velocity.Y), p.Type)
	}
	return bw.Flush()
}

// ReadParticles parses a particle file. Blank lines are skipped; any
// malformed row fails the whole read with its line number.
func ReadParticles(r io.Reader) ([]particle.Particle, Meta, error) {
	meta := Meta{}
	var ps []particle.Particle
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			parseMeta(line, meta)
			continue
		case strings.HasPrefix(line, "x\t") || line == "x":
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, nil, fmt.Errorf("line %d: want 5 columns, got %d", n, len(fields))
		}
		var v [4]float64
		for i := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d column %d: %w", n, i+1, err)
			}
			v[i] = f
		}
		typ, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return nil, nil, fmt.Errorf("line %d column 5: %w", n, err)
		}
		if typ < 0 {
			return nil, nil, fmt.Errorf("line %d: negative type %d", n, typ)
		}
		ps = append(ps, particle.Particle{
			Position: vec.New(v[0], v[1], 0),
			Velocity: vec.New(v[2], v[3], 0),
			Type:     typ,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading particles: %w", err)
	}
	return ps, meta, nil
}

// WriteMatrix writes one row per line.
func WriteMatrix(w io.Writer, m force.Matrix, meta Meta) error {
	bw := bufio.NewWriter(w)
	writeMeta(bw, meta)
	for _, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatFloat(v)
		}
		bw.WriteString(strings.Join(cells, "\t") + "\n")
	}
	return bw.Flush()
}

// ReadMatrix parses and validates a matrix file.
func ReadMatrix(r io.Reader) (force.Matrix, Meta, error) {
	meta := Meta{}
	var m force.Matrix
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			parseMeta(line, meta)
			continue
		}
		fields := strings.Split(line, "\t")
		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d column %d: %w", n, j+1, err)
			}
			row[j] = v
		}
		m = append(m, row)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading matrix: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid matrix: %w", err)
	}
	return m, meta, nil
}

// SaveParticles writes ps to path, replacing it atomically.
func SaveParticles(path string, ps []particle.Particle, meta Meta) error {
	return writeFile(path, func(w io.Writer) error { return WriteParticles(w, ps, meta) })
}

func LoadParticles(path string) ([]particle.Particle, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadParticles(f)
}

// SaveMatrix writes m to path, replacing it atomically.
func SaveMatrix(path string, m force.Matrix, meta Meta) error {
	return writeFile(path, func(w io.Writer) error { return WriteMatrix(w, m, meta) })
}

func LoadMatrix(path string) (force.Matrix, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadMatrix(f)
}

func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
