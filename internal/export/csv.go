package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// DefaultCSVName is the per-directory corner log.
const DefaultCSVName = "bounding_box_latlon.csv"

// CSVHeader is the first row of the corner log.
var CSVHeader = []string{
	"name", "center_x", "center_y",
	"corner0_x", "corner0_y", "corner1_x", "corner1_y",
	"corner2_x", "corner2_y", "corner3_x", "corner3_y",
}

// CornerRow renders one shape as a corner log row. Boxes fill all four
// corners clockwise from the top-left; lines fill the first two slots with
// their endpoints and leave the rest empty.
func CornerRow(name string, p annotation.PixelShape, f Format) []string {
	row := make([]string, len(CSVHeader))
	row[0] = name
	put := func(i int, pt viewport.Point) {
		row[1+2*i] = f.float(pt.X)
		row[2+2*i] = f.float(pt.Y)
	}
	put(0, p.Center())
	switch p.Kind {
	case annotation.Box:
		for i, c := range p.Corners() {
			put(i+1, c)
		}
	case annotation.Line:
		put(1, p.Min)
		put(2, p.Max)
	}
	return row
}

// AppendCSV adds one row per shape to the corner log at path, drops rows
// that are identical to an earlier one, and rewrites the file. With no
// shapes the file is neither created nor touched. It returns the number of
// rows that were new.
func AppendCSV(path, name string, shapes []annotation.PixelShape, f Format) (int, error) {
	if len(shapes) == 0 {
		return 0, nil
	}
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(rows)+len(shapes))
	kept := rows[:0]
	for _, r := range rows {
		k := rowKey(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, r)
	}
	added := 0
	for _, p := range shapes {
		r := CornerRow(name, p, f)
		k := rowKey(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, r)
		added++
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return 0, err
	}
	if err := w.WriteAll(kept); err != nil {
		return 0, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return added, nil
}

// CSVPath returns the corner log for the directory holding imagePath.
func CSVPath(imagePath, name string) string {
	if name == "" {
		name = DefaultCSVName
	}
	return filepath.Join(filepath.Dir(imagePath), name)
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) > 0 && strings.EqualFold(all[0][0], CSVHeader[0]) {
		all = all[1:]
	}
	for i, row := range all {
		if len(row) < len(CSVHeader) {
			all[i] = append(row, make([]string, len(CSVHeader)-len(row))...)
		}
	}
	return all, nil
}

func rowKey(row []string) string {
	return strings.Join(row, "\x00")
}
