package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"shopsight/internal/logging"
	"shopsight/internal/model"
)

// Load reads the product file at path.
//
// The returned catalog is never nil. When the file cannot be read, lacks a
// required column or cannot be parsed, Load returns an empty catalog together
// with a *LoadError; callers that only need results can ignore the error.
// Malformed rows never fail the load, they are dropped and counted.
func Load(path string) (*Catalog, error) {
	logger := logging.Component("catalog")

	data, err := os.ReadFile(path)
	if err != nil {
		lerr := &LoadError{Path: path, Kind: ErrSourceUnavailable, Err: err}
		logger.Error().Err(lerr).Msg("catalog load failed")
		return Empty(), lerr
	}

	c, err := parse(data)
	if err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) {
			lerr.Path = path
		}
		logger.Error().Err(err).Msg("catalog load failed")
		return c, err
	}

	logger.Info().
		Str("path", path).
		Int("products", c.Stats.RowsKept).
		Int("dropped", c.Stats.RowsDropped).
		Int("skipped_lines", c.Stats.LinesSkipped).
		Msg("catalog loaded")
	return c, nil
}

// Parse reads a catalog from r with the same policy as Load.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Empty(), &LoadError{Kind: ErrSourceUnavailable, Err: err}
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	logger := logging.Component("catalog")

	reader := newReader(data)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Empty(), &LoadError{Kind: ErrMissingColumns, Detail: "empty file"}
		}
		return Empty(), &LoadError{Kind: ErrMalformedSource, Detail: "unreadable header", Err: err}
	}

	index, columns := headerIndex(header)
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Empty(), &LoadError{Kind: ErrMissingColumns, Detail: strings.Join(missing, ", ")}
	}

	var (
		stats    LoadStats
		products []model.Product
		seen     = make(map[int64]bool)
		// src is the input the current reader runs over, starting after
		// line base of data.
		src  = data
		base = 0
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) || openAtEOF(src, perr) {
				line := 0
				if perr != nil {
					line = base + perr.StartLine
				}
				logger.Error().
					Int("line", line).
					Str("content", rawLine(data, line)).
					Msg("problematic line in catalog source")
				return Empty(), &LoadError{Kind: ErrMalformedSource, Detail: fmt.Sprintf("line %d", line), Err: err}
			}

			stats.LinesSkipped++
			logger.Warn().
				Int("line", base+perr.StartLine).
				Str("content", rawLine(data, base+perr.StartLine)).
				Msg("skipping line with unbalanced quotes")

			// a quote that ran into later lines swallowed them; parse again
			// from the line after the bad one
			if perr.Line > perr.StartLine {
				src = src[lineOffset(src, perr.StartLine+1):]
				base += perr.StartLine
				reader = newReader(src)
			}
			continue
		}

		if len(record) > len(header) {
			stats.LinesSkipped++
			line, _ := reader.FieldPos(0)
			logger.Warn().
				Int("line", base+line).
				Int("expected", len(header)).
				Int("saw", len(record)).
				Msg("skipping line with too many fields")
			continue
		}

		stats.RowsRead++
		p, ok := normalizeRow(record, index)
		if !ok {
			stats.RowsDropped++
			continue
		}
		if seen[p.ID] {
			stats.RowsDropped++
			logger.Warn().Int64("id", p.ID).Msg("dropping row with duplicate id")
			continue
		}
		seen[p.ID] = true
		products = append(products, p)
	}

	stats.RowsKept = len(products)
	c := newCatalog(columns, products)
	c.Stats = stats
	return c, nil
}

// headerIndex resolves header names to canonical column names.
// Columns without a canonical meaning are kept under their trimmed names.
func headerIndex(header []string) (map[string]int, []string) {
	index := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		columns = append(columns, name)
	}
	return index, columns
}

var knownColumns = map[string]bool{
	ColID: true, ColName: true, ColDescription: true, ColPrice: true,
	ColCategory: true, ColBrand: true, ColRating: true, ColInStock: true,
}

// normalizeRow converts one record into a Product. It returns false when the
// row has no usable id or price.
func normalizeRow(record []string, index map[string]int) (model.Product, bool) {
	field := func(col string) (string, bool) {
		i, ok := index[col]
		if !ok {
			return "", false
		}
		if i >= len(record) {
			return "", true
		}
		return strings.TrimSpace(record[i]), true
	}

	idText, _ := field(ColID)
	id, ok := parseID(idText)
	if !ok {
		return model.Product{}, false
	}
	priceText, _ := field(ColPrice)
	price, ok := parseNumber(priceText)
	if !ok {
		return model.Product{}, false
	}

	p := model.Product{ID: id, Price: price}
	p.Name, _ = field(ColName)
	p.Category, _ = field(ColCategory)
	p.Description, _ = field(ColDescription)
	p.Brand, _ = field(ColBrand)

	if text, present := field(ColRating); present {
		if r, ok := parseNumber(text); ok {
			p.Rating = &r
		}
	}
	if text, present := field(ColInStock); present {
		v := parseStock(text)
		p.InStock = &v
	}

	for col, i := range index {
		if knownColumns[col] || i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[col] = v
		}
	}
	return p, true
}

func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, ok := parseNumber(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// parseNumber treats empty, unparseable and non-finite values as missing.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseStock maps "true" and "yes" (any case) to true and everything else to false.
func parseStock(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		return true
	}
	return false
}

func newReader(data []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// openAtEOF reports whether perr is a quoted field still open when the input
// ended. Any other quote error points at the offending quote character.
func openAtEOF(src []byte, perr *csv.ParseError) bool {
	if !errors.Is(perr.Err, csv.ErrQuote) {
		return false
	}
	line := lineBytes(src, perr.Line)
	i := perr.Column - 1
	return i < 0 || i >= len(line) || line[i] != '"'
}

// lineOffset returns the byte offset where the 1-based line n starts.
func lineOffset(data []byte, n int) int {
	off := 0
	for l := 1; l < n; l++ {
		i := bytes.IndexByte(data[off:], '\n')
		if i < 0 {
			return len(data)
		}
		off += i + 1
	}
	return off
}

func lineBytes(data []byte, n int) []byte {
	if n <= 0 {
		return nil
	}
	rest := data[lineOffset(data, n):]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return bytes.TrimSuffix(rest, []byte("\r"))
}

func rawLine(data []byte, line int) string {
	return strings.TrimSpace(string(lineBytes(data, line)))
}
