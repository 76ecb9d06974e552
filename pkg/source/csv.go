package source

import (
	"encoding/csv"
	stderrors "errors"
	"io"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// ReadCSV decodes comma-separated records from r. The first row is the
// header. Rows may have fewer fields than the header; missing fields read
// as empty. ReadCSV does not close r.
func ReadCSV(r io.Reader, opts Options) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv header")
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv")
	}
	return readTable(header, rows, opts, 2)
}
