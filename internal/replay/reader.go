package replay

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
	"github.com/shopspring/decimal"
)

const (
	columnKind   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

// ErrMalformedRecord marks an input line the reader could not turn into a
// well-typed record.
var ErrMalformedRecord = errors.New("malformed record")

// Reader yields one validated engine record per input line. Field whitespace
// is trimmed and the kind column is case-insensitive. Malformed lines are
// reported with their line number; the reader does not attempt recovery.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	line    int
}

// NewReader wraps a CSV source with the expected header
// "type,client,tx,amount".
func NewReader(source io.Reader) *Reader {
	csvReader := csv.NewReader(source)
	// The amount column may be absent entirely on dispute lines.
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	return &Reader{csv: csvReader}
}

// Next returns the next record, or io.EOF once the stream is exhausted.
func (reader *Reader) Next() (engine.Record, error) {
	if reader.columns == nil {
		if err := reader.readHeader(); err != nil {
			return engine.Record{}, err
		}
	}
	fields, err := reader.csv.Read()
	if errors.Is(err, io.EOF) {
		return engine.Record{}, io.EOF
	}
	reader.line++
	if err != nil {
		return engine.Record{}, fmt.Errorf("line %d: %w: %v", reader.line, ErrMalformedRecord, err)
	}

	kind, err := engine.ParseRecordKind(reader.field(fields, columnKind))
	if err != nil {
		return engine.Record{}, fmt.Errorf("line %d: %w: %v", reader.line, ErrMalformedRecord, err)
	}
	clientValue, err := strconv.ParseUint(reader.field(fields, columnClient), 10, 16)
	if err != nil {
		return engine.Record{}, fmt.Errorf("line %d: %w: client: %v", reader.line, ErrMalformedRecord, err)
	}
	txValue, err := strconv.ParseUint(reader.field(fields, columnTx), 10, 32)
	if err != nil {
		return engine.Record{}, fmt.Errorf("line %d: %w: tx: %v", reader.line, ErrMalformedRecord, err)
	}

	var amount *decimal.Decimal
	if rawAmount := reader.field(fields, columnAmount); rawAmount != "" {
		parsed, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return engine.Record{}, fmt.Errorf("line %d: %w: amount: %v", reader.line, ErrMalformedRecord, err)
		}
		amount = &parsed
	}

	return engine.NewRecord(kind, engine.ClientID(clientValue), engine.TxID(txValue), amount), nil
}

func (reader *Reader) readHeader() error {
	header, err := reader.csv.Read()
	reader.line++
	if err != nil {
		return fmt.Errorf("line %d: %w: header: %v", reader.line, ErrMalformedRecord, err)
	}
	columns := make(map[string]int, len(header))
	for index, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = index
	}
	for _, required := range []string{columnKind, columnClient, columnTx} {
		if _, present := columns[required]; !present {
			return fmt.Errorf("line %d: %w: missing column %q", reader.line, ErrMalformedRecord, required)
		}
	}
	reader.columns = columns
	return nil
}

func (reader *Reader) field(fields []string, column string) string {
	index, present := reader.columns[column]
	if !present || index >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[index])
}
