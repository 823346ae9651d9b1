package replay

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
)

func readAll(test *testing.T, input string) []engine.Record {
	test.Helper()
	reader := NewReader(strings.NewReader(input))
	var records []engine.Record
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		if err != nil {
			test.Fatalf("next: %v", err)
		}
		records = append(records, record)
	}
}

func TestReaderParsesAllKinds(test *testing.T) {
	test.Parallel()
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,100.00",
		"withdrawal,1,2,40.50",
		"dispute,1,1,",
		"resolve,1,1,",
		"chargeback,1,1,",
	}, "\n")

	records := readAll(test, input)
	if len(records) != 5 {
		test.Fatalf("expected 5 records, got %d", len(records))
	}
	expectedKinds := []engine.RecordKind{
		engine.KindDeposit,
		engine.KindWithdrawal,
		engine.KindDispute,
		engine.KindResolve,
		engine.KindChargeback,
	}
	for index, record := range records {
		if record.Kind() != expectedKinds[index] {
			test.Fatalf("record %d: expected %s, got %s", index, expectedKinds[index], record.Kind())
		}
	}
	amount, hasAmount := records[0].Amount()
	if !hasAmount || amount.String() != "100" {
		test.Fatalf("unexpected deposit amount: %s (present %t)", amount, hasAmount)
	}
	if _, hasAmount := records[2].Amount(); hasAmount {
		test.Fatalf("expected no amount on dispute record")
	}
}

func TestReaderTrimsWhitespaceAndIgnoresKindCase(test *testing.T) {
	test.Parallel()
	input := strings.Join([]string{
		"type, client, tx, amount",
		"  Deposit , 2 , 7 , 1.5 ",
	}, "\n")

	records := readAll(test, input)
	if len(records) != 1 {
		test.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record.Kind() != engine.KindDeposit || record.ClientID() != 2 || record.TxID() != 7 {
		test.Fatalf("unexpected record: %+v", record)
	}
}

func TestReaderAcceptsOmittedAmountColumn(test *testing.T) {
	test.Parallel()
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,10.00",
		"dispute,1,1",
	}, "\n")

	records := readAll(test, input)
	if len(records) != 2 {
		test.Fatalf("expected 2 records, got %d", len(records))
	}
	if _, hasAmount := records[1].Amount(); hasAmount {
		test.Fatalf("expected no amount on short dispute line")
	}
}

func TestReaderRejectsUnknownKindWithLineNumber(test *testing.T) {
	test.Parallel()
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,10.00",
		"transfer,1,2,10.00",
	}, "\n")

	reader := NewReader(strings.NewReader(input))
	if _, err := reader.Next(); err != nil {
		test.Fatalf("first record: %v", err)
	}
	_, err := reader.Next()
	if !errors.Is(err, ErrMalformedRecord) {
		test.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		test.Fatalf("expected line number in error, got %q", err.Error())
	}
}

func TestReaderRejectsClientOutOfRange(test *testing.T) {
	test.Parallel()
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,70000,1,10.00",
	}, "\n")

	reader := NewReader(strings.NewReader(input))
	if _, err := reader.Next(); !errors.Is(err, ErrMalformedRecord) {
		test.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestReaderRequiresHeaderColumns(test *testing.T) {
	test.Parallel()
	reader := NewReader(strings.NewReader("kind,who,id\ndeposit,1,1\n"))
	if _, err := reader.Next(); !errors.Is(err, ErrMalformedRecord) {
		test.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}
