package export

import (
	"encoding/csv"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

func boxShape(x0, y0, x1, y1 float64, label string) annotation.Shape {
	var s annotation.Store
	s.Begin(annotation.Box, viewport.Pt(x0, y0), label, viewport.Identity)
	s.Update(viewport.Pt(x1, y1), viewport.Identity)
	s.Commit()
	return s.Shapes()[0]
}

func TestWriteNormalizedEndToEnd(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "scene.png")
	size := image.Pt(2000, 1500)
	n := annotation.ToImageFraction(boxShape(100, 100, 300, 200, "0"), viewport.Identity, size)

	ok, err := WriteNormalized(TxtPath(img), []annotation.Normalized{n}, DefaultFormat)
	if err != nil || !ok {
		t.Fatalf("WriteNormalized: ok=%v err=%v", ok, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "scene.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) != 5 || fields[0] != "0" {
		t.Fatalf("unexpected row %q", data)
	}
	want := []float64{0.1, 0.1, 0.1, 0.0667}
	for i, w := range want {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil || !scalar.EqualWithinAbs(v, w, 1e-4) {
			t.Fatalf("field %d = %q want %v", i+1, fields[i+1], w)
		}
	}
}

func TestWriteNormalizedSkipsLinesAndEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	line := annotation.Normalized{Kind: annotation.Line, Label: "1", X2: 0.5, Y2: 0.5}
	ok, err := WriteNormalized(path, []annotation.Normalized{line}, DefaultFormat)
	if err != nil || ok {
		t.Fatalf("expected nothing written, ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should not exist: %v", err)
	}
	ok, err = WriteLines(LinesPath(filepath.Join(dir, "a.png")), []annotation.Normalized{line}, DefaultFormat)
	if err != nil || !ok {
		t.Fatalf("WriteLines: ok=%v err=%v", ok, err)
	}
	got, err := ReadLines(filepath.Join(dir, "a.lines.txt"))
	if err != nil || len(got) != 1 || got[0].X2 != 0.5 || got[0].Kind != annotation.Line {
		t.Fatalf("ReadLines = %+v, %v", got, err)
	}
}

func TestPrecision(t *testing.T) {
	rows := FormatRows([]annotation.Normalized{{Kind: annotation.Box, Label: "car", CX: 1.0 / 3, CY: 0.5, W: 0.25, H: 2.0 / 3}},
		annotation.Box, Format{Precision: 4})
	if rows != "car 0.3333 0.5 0.25 0.6667\n" {
		t.Fatalf("rows = %q", rows)
	}
}

func TestDefaultPrecisionDropsNoise(t *testing.T) {
	f := Format{Precision: DefaultPrecision}
	rows := FormatRows([]annotation.Normalized{{Kind: annotation.Box, Label: "0",
		CX: 0.10000000000000002, CY: 0.1, W: 0.09999999999999998, H: 0.06666666666666667}}, annotation.Box, f)
	if rows != "0 0.1 0.1 0.1 0.066667\n" {
		t.Fatalf("rows = %q", rows)
	}
	if tol := f.Tolerance(); tol < 5e-7 || tol > 1e-6 {
		t.Fatalf("tolerance %g", tol)
	}
}

func TestFormatRowsSkipsEmptyBoxes(t *testing.T) {
	rows := FormatRows([]annotation.Normalized{
		{Kind: annotation.Box, Label: "0", CX: 1, CY: 0.5, W: 0, H: 0.2},
		{Kind: annotation.Box, Label: "1", CX: 0.5, CY: 0.5, W: 0.2, H: 0.2},
	}, annotation.Box, DefaultFormat)
	if rows != "1 0.5 0.5 0.2 0.2\n" {
		t.Fatalf("rows = %q", rows)
	}
}

func TestReadNormalized(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		err     error
	}{
		{"two rows", "0 0.1 0.1 0.1 0.0667\n3 0.5 0.5 0.2 0.2\n", 2, nil},
		{"trailing blank line", "0 0.1 0.1 0.1 0.1\n\n", 1, nil},
		{"short row aborts everything", "0 0.1 0.1 0.1 0.1\n0 0.1 0.1\n", 0, ErrMalformedAnnotation},
		{"long row", "0 0.1 0.1 0.1 0.1 9\n", 0, ErrMalformedAnnotation},
		{"not a number", "0 a 0.1 0.1 0.1\n", 0, ErrMalformedAnnotation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "x.txt")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadNormalized(path)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("err = %v want %v", err, tc.err)
				}
				if got != nil {
					t.Fatalf("partial import: %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadNormalized: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d rows want %d", len(got), tc.want)
			}
		})
	}
}

func TestReadNormalizedMissingFile(t *testing.T) {
	got, err := ReadNormalized(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil || got != nil {
		t.Fatalf("missing file should be empty, got %+v %v", got, err)
	}
}

func TestRoundTripThroughFile(t *testing.T) {
	size := image.Pt(640, 480)
	f := viewport.Frame{Scale: 1.3, Origin: viewport.Pt(20, -7)}
	var s annotation.Store
	s.Begin(annotation.Box, viewport.Pt(50, 60), "2", f)
	s.Update(viewport.Pt(300, 200), f)
	s.Commit()
	orig := s.Shapes()[0]

	path := filepath.Join(t.TempDir(), "r.txt")
	if _, err := WriteNormalized(path, s.Normalize(size), DefaultFormat); err != nil {
		t.Fatal(err)
	}
	ns, err := ReadNormalized(path)
	if err != nil || len(ns) != 1 {
		t.Fatalf("read back: %+v %v", ns, err)
	}
	back := annotation.FromFraction(ns[0], f, size)
	for _, pair := range [][2]float64{{back.P0.X, orig.P0.X}, {back.P0.Y, orig.P0.Y}, {back.P1.X, orig.P1.X}, {back.P1.Y, orig.P1.Y}} {
		if !scalar.EqualWithinAbs(pair[0], pair[1], 1e-9) {
			t.Fatalf("round trip drifted: %+v vs %+v", back, orig)
		}
	}
}

func readRowsCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return all
}

func TestAppendCSV(t *testing.T) {
	dir := t.TempDir()
	path := CSVPath(filepath.Join(dir, "img.png"), "")
	box := annotation.PixelShape{Kind: annotation.Box, Min: viewport.Pt(10, 20), Max: viewport.Pt(30, 60)}
	line := annotation.PixelShape{Kind: annotation.Line, Min: viewport.Pt(5, 5), Max: viewport.Pt(1, 9)}

	n, err := AppendCSV(path, "img.png", []annotation.PixelShape{box, line, box}, DefaultFormat)
	if err != nil || n != 2 {
		t.Fatalf("first append: n=%d err=%v", n, err)
	}
	n, err = AppendCSV(path, "img.png", []annotation.PixelShape{box}, DefaultFormat)
	if err != nil || n != 0 {
		t.Fatalf("duplicate append: n=%d err=%v", n, err)
	}

	rows := readRowsCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header and two rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(CSVHeader, ",") {
		t.Fatalf("header = %v", rows[0])
	}
	wantBox := []string{"img.png", "20", "40", "10", "20", "30", "20", "30", "60", "10", "60"}
	if strings.Join(rows[1], ",") != strings.Join(wantBox, ",") {
		t.Fatalf("box row = %v", rows[1])
	}
	wantLine := []string{"img.png", "3", "7", "5", "5", "1", "9", "", "", "", ""}
	if strings.Join(rows[2], ",") != strings.Join(wantLine, ",") {
		t.Fatalf("line row = %v", rows[2])
	}
}

func TestAppendCSVNoShapes(t *testing.T) {
	dir := t.TempDir()
	path := CSVPath(filepath.Join(dir, "img.png"), "")
	if _, err := AppendCSV(path, "img.png", nil, DefaultFormat); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("csv should not be created: %v", err)
	}

	if err := os.WriteFile(path, []byte("keep me\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	before, _ := os.Stat(path)
	if _, err := AppendCSV(path, "img.png", []annotation.PixelShape{}, DefaultFormat); err != nil {
		t.Fatal(err)
	}
	after, _ := os.Stat(path)
	data, _ := os.ReadFile(path)
	if string(data) != "keep me\n" || !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("csv was modified")
	}
}
