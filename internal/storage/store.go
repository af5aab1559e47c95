// Package storage writes simulation output as flat text files in a single
// directory: one dataset<i>.txt per frame, one boundary<i>.txt per boundary
// outline and a run.json manifest.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/sim"
)

var ErrMalformed = errors.New("storage: malformed file")

const (
	framePrefix    = "dataset"
	boundaryPrefix = "boundary"
	fileSuffix     = ".txt"
)

// Store is an output directory. It implements [sim.Store].
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) FramePath(i int) string {
	return filepath.Join(s.dir, framePrefix+strconv.Itoa(i)+fileSuffix)
}

func (s *Store) BoundaryPath(i int) string {
	return filepath.Join(s.dir, boundaryPrefix+strconv.Itoa(i)+fileSuffix)
}

// Reset deletes the directory with everything in it and creates it again.
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.MkdirAll(s.dir, 0755)
}

// WriteFrame writes one "<x> <y> <intensity>" line per occupied cell.
func (s *Store) WriteFrame(f *sim.Frame) error {
	return writeLines(s.FramePath(f.Index), len(f.Cells), func(i int, b []byte) []byte {
		c := f.Cells[i]
		b = strconv.AppendFloat(b, c.X, 'g', -1, 64)
		b = append(b, ' ')
		b = strconv.AppendFloat(b, c.Y, 'g', -1, 64)
		b = append(b, ' ')
		return strconv.AppendFloat(b, c.Intensity, 'g', -1, 64)
	})
}

// WriteBoundaries writes every outline as "<x> <y>" lines and returns how
// many files were written.
func (s *Store) WriteBoundaries(outlines [][]boundary.Point) (int, error) {
	for i, pts := range outlines {
		err := writeLines(s.BoundaryPath(i), len(pts), func(j int, b []byte) []byte {
			b = strconv.AppendFloat(b, pts[j].X, 'g', -1, 64)
			b = append(b, ' ')
			return strconv.AppendFloat(b, pts[j].Y, 'g', -1, 64)
		})
		if err != nil {
			return i, err
		}
	}
	return len(outlines), nil
}

func writeLines(path string, n int, line func(i int, b []byte) []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	buf := make([]byte, 0, 64)
	for i := 0; i < n; i++ {
		buf = line(i, buf[:0])
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// Sample is one row of a dataset file.
type Sample struct {
	X, Y, Intensity float64
}

func (s *Store) LoadFrame(i int) ([]Sample, error) {
	rows, err := readRows(s.FramePath(i), 3)
	if err != nil {
		return nil, err
	}
	out := make([]Sample, len(rows))
	for j, r := range rows {
		out[j] = Sample{X: r[0], Y: r[1], Intensity: r[2]}
	}
	return out, nil
}

func (s *Store) LoadBoundary(i int) ([]boundary.Point, error) {
	rows, err := readRows(s.BoundaryPath(i), 2)
	if err != nil {
		return nil, err
	}
	out := make([]boundary.Point, len(rows))
	for j, r := range rows {
		out[j] = boundary.Point{X: r[0], Y: r[1]}
	}
	return out, nil
}

// ListFrames returns the indexes of the dataset files present, ascending.
func (s *Store) ListFrames() ([]int, error) {
	return s.list(framePrefix)
}

func (s *Store) ListBoundaries() ([]int, error) {
	return s.list(boundaryPrefix)
}

func (s *Store) list(prefix string) ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, err
	}

	idx := make([]int, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), fileSuffix))
		if err != nil {
			continue
		}
		idx = append(idx, n)
	}
	sort.Ints(idx)
	return idx, nil
}

func readRows(path string, cols int) ([][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseRows(file, path, cols)
}

func parseRows(r io.Reader, name string, cols int) ([][]float64, error) {
	rows := make([][]float64, 0)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != cols {
			return nil, fmt.Errorf("%w: %s:%d: want %d fields, got %d", ErrMalformed, name, line, cols, len(fields))
		}
		row := make([]float64, cols)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformed, name, line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}
