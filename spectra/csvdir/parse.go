package csvdir

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-chemometrics/spectra"
)

var (
	// ErrNoData is returned for files without numeric rows.
	ErrNoData = errors.New("csvdir: no data rows")
	// ErrTooFewColumns is returned for rows with fewer than two fields.
	ErrTooFewColumns = errors.New("csvdir: expected two columns")
)

// Parse reads one spectrum named name from r.
func Parse(name string, r io.Reader) (*spectra.Spectrum, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvdir: read %s: %w", name, err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var x, y []float64
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvdir: %s: %w", name, err)
		}
		if len(rec) < 2 {
			if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
				continue
			}
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: %s line %d", ErrTooFewColumns, name, line)
		}

		xv, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		yv, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			if row == 0 {
				continue // header
			}
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csvdir: %s line %d: non-numeric value", name, line)
		}

		x = append(x, xv)
		y = append(y, yv)
	}

	if len(y) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, name)
	}

	return spectra.New(name, x, y)
}

// detectDelimiter looks at the first data line and picks tab, semicolon or
// comma, in that order of preference.
func detectDelimiter(data []byte) rune {
	for line := range bytes.Lines(data) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		switch {
		case bytes.IndexByte(line, '\t') >= 0:
			return '\t'
		case bytes.IndexByte(line, ';') >= 0:
			return ';'
		}
		break
	}
	return ','
}
