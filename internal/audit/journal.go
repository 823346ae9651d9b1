package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19

	errorOperationAudit  = "audit"
	errorSubjectMutation = "mutation"
	errorCodeEncode      = "encode"
	errorCodeInsert      = "insert"
)

// JournalOption configures a Journal instance.
type JournalOption func(*Journal)

// WithRunID pins the journal to a fixed run identifier instead of a random
// one. Re-journaling under the same run identifier is idempotent.
func WithRunID(runID string) JournalOption {
	return func(journal *Journal) {
		journal.runID = runID
	}
}

// WithErrorHandler wires a callback for persistence failures. The journal is
// a diagnostic side channel, so failures are reported there and swallowed.
func WithErrorHandler(handler func(error)) JournalOption {
	return func(journal *Journal) {
		journal.onError = handler
	}
}

// Journal persists engine mutation events as audit rows. It implements
// engine.MutationLogger; a write failure never propagates into record
// processing.
type Journal struct {
	db       *gorm.DB
	runID    string
	sequence uint64
	onError  func(error)
}

// NewJournal wires a Journal over an opened database.
func NewJournal(db *gorm.DB, options ...JournalOption) *Journal {
	journal := &Journal{db: db, runID: uuid.NewString()}
	for _, option := range options {
		if option != nil {
			option(journal)
		}
	}
	return journal
}

// Migrate creates the audit schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Mutation{})
}

type mutationDetail struct {
	Amount    string `json:"amount"`
	Available string `json:"available"`
	Held      string `json:"held"`
}

// LogMutation appends one audit row for a committed store mutation.
func (journal *Journal) LogMutation(ctx context.Context, event engine.MutationEvent) {
	journal.sequence++
	detail, err := json.Marshal(mutationDetail{
		Amount:    event.Amount.String(),
		Available: event.Available.String(),
		Held:      event.Held.String(),
	})
	if err != nil {
		journal.report(engine.WrapError(errorOperationAudit, errorSubjectMutation, errorCodeEncode, err))
		return
	}
	row := Mutation{
		RunID:     journal.runID,
		Sequence:  journal.sequence,
		Name:      event.Mutation,
		ClientID:  uint16(event.ClientID),
		TxID:      uint32(event.TxID),
		Detail:    datatypes.JSON(detail),
		CreatedAt: time.Now().UTC(),
	}
	err = journal.db.WithContext(ctx).Create(&row).Error
	if isDuplicateMutation(err) {
		// The (run, sequence) pair was journaled already; keep the first row.
		return
	}
	if err != nil {
		journal.report(engine.WrapError(errorOperationAudit, errorSubjectMutation, errorCodeInsert, err))
	}
}

func (journal *Journal) report(err error) {
	if journal.onError != nil {
		journal.onError(err)
	}
}

func isDuplicateMutation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
