// Package export writes annotations to the normalized row format and to the
// per-directory corner CSV, and reads normalized rows back.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
)

// ErrMalformedAnnotation reports a row that does not have exactly five
// fields. Nothing from the file is imported when it is returned.
var ErrMalformedAnnotation = errors.New("malformed annotation file")

const fieldsPerRow = 5

// Format controls how numbers are rendered.
type Format struct {
	// Precision rounds fractions to this many decimal places. Zero or
	// negative keeps the shortest representation that round-trips.
	Precision int
}

// DefaultFormat writes full precision.
var DefaultFormat = Format{}

// DefaultPrecision is the configured rounding unless overridden. Six places
// is well below a pixel for any raster under a million pixels a side.
const DefaultPrecision = 6

func (f Format) float(v float64) string {
	if f.Precision > 0 {
		v = scalar.Round(v, f.Precision)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tolerance is how far a value read back from a file written with f may be
// from the value that was written.
func (f Format) Tolerance() float64 {
	if f.Precision > 0 {
		return math.Pow10(-f.Precision)/2 + 1e-9
	}
	return 1e-9
}

// TxtPath returns the annotation file that sits next to imagePath.
func TxtPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
}

// LinesPath returns the file that holds line annotations for imagePath.
func LinesPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".lines.txt"
}

// FormatRows renders one `label a b c d` row per shape of the given kind.
// Boxes are written as centre and size, lines as both endpoints. Boxes with
// no area inside the raster are left out.
func FormatRows(ns []annotation.Normalized, kind annotation.Kind, f Format) string {
	var sb strings.Builder
	for _, n := range ns {
		if n.Kind != kind || n.Empty() {
			continue
		}
		vals := [4]float64{n.CX, n.CY, n.W, n.H}
		if kind == annotation.Line {
			vals = [4]float64{n.X1, n.Y1, n.X2, n.Y2}
		}
		sb.WriteString(label(n.Label))
		for _, v := range vals {
			sb.WriteByte(' ')
			sb.WriteString(f.float(v))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteNormalized writes the box rows for an image to path, replacing any
// previous content. When there are no boxes nothing is written and written
// is false.
func WriteNormalized(path string, ns []annotation.Normalized, f Format) (written bool, err error) {
	return writeRows(path, ns, annotation.Box, f)
}

// WriteLines is WriteNormalized for line shapes.
func WriteLines(path string, ns []annotation.Normalized, f Format) (bool, error) {
	return writeRows(path, ns, annotation.Line, f)
}

func writeRows(path string, ns []annotation.Normalized, kind annotation.Kind, f Format) (bool, error) {
	body := FormatRows(ns, kind, f)
	if body == "" {
		return false, nil
	}
	if err := writeFileAtomic(path, []byte(body)); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// ReadNormalized reads box rows from path. A missing file yields no rows and
// no error. Blank lines are ignored; any other line must have exactly five
// whitespace separated fields or the whole file is rejected.
func ReadNormalized(path string) ([]annotation.Normalized, error) {
	return readRows(path, annotation.Box)
}

// ReadLines is ReadNormalized for line shapes.
func ReadLines(path string) ([]annotation.Normalized, error) {
	return readRows(path, annotation.Line)
}

func readRows(path string, kind annotation.Kind) ([]annotation.Normalized, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ns, err := ParseRows(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ns, nil
}

// ParseRows parses rows produced by FormatRows.
func ParseRows(r io.Reader, kind annotation.Kind) ([]annotation.Normalized, error) {
	var out []annotation.Normalized
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != fieldsPerRow {
			return nil, fmt.Errorf("line %d: %d fields: %w", line, len(fields), ErrMalformedAnnotation)
		}
		var vals [4]float64
		for i, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", line, ErrMalformedAnnotation, err)
			}
			vals[i] = v
		}
		n := annotation.Normalized{Kind: kind, Label: fields[0]}
		if kind == annotation.Line {
			n.X1, n.Y1, n.X2, n.Y2 = vals[0], vals[1], vals[2], vals[3]
		} else {
			n.CX, n.CY, n.W, n.H = vals[0], vals[1], vals[2], vals[3]
		}
		out = append(out, n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// label keeps a row parseable when the label is empty or has spaces.
func label(s string) string {
	s = strings.Join(strings.Fields(s), "_")
	if s == "" {
		return "0"
	}
	return s
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
