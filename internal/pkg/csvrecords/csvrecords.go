// Package csvrecords decodes delimited text with a header row into
// header-keyed records.
package csvrecords

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultDelimiter matches the exports produced by the booking back office.
const DefaultDelimiter = ';'

// ErrMalformed reports input that cannot be decoded into records.
var ErrMalformed = errors.New("malformed csv")

// Record maps a header name to the trimmed cell value.
type Record = map[string]string

type Options struct {
	// Delimiter separates fields. Zero means DefaultDelimiter.
	Delimiter rune
}

// Decode reads every record from r. Empty lines are skipped, a leading UTF-8
// BOM is dropped and keys and values are trimmed. A row whose field count
// differs from the header is an ErrMalformed. Input with only a header (or no
// content at all) yields an empty, non-nil slice.
func Decode(r io.Reader, opts Options) ([]Record, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}

	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	records := make([]Record, 0)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return records, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	keys, err := headerKeys(header)
	if err != nil {
		return nil, err
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, wrap(err)
		}
		rec := make(Record, len(keys))
		for i, k := range keys {
			rec[k] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
}

// DecodeFile opens path and decodes it with Decode.
func DecodeFile(path string, opts Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func headerKeys(header []string) ([]string, error) {
	keys := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		k := strings.TrimSpace(h)
		if k == "" {
			return nil, fmt.Errorf("%w: empty column name at position %d", ErrMalformed, i+1)
		}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformed, k)
		}
		seen[k] = struct{}{}
		keys[i] = k
	}
	return keys, nil
}

func skipBOM(br *bufio.Reader) error {
	r, _, err := br.ReadRune()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if r != '\uFEFF' {
		return br.UnreadRune()
	}
	return nil
}

func wrap(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %v", ErrMalformed, pe)
	}
	return fmt.Errorf("read csv: %w", err)
}
