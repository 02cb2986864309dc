package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ParseRows reads delimited text with a header row into a sequence of
// raw rows in file order. The header row is required and every data
// row must have the same number of columns; anything else fails with
// ErrParse.
func ParseRows(r io.Reader) ([]RawRow, error) {
	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = buffered.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(buffered)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}

		row := make(RawRow, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}
