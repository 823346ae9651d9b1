package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mutation mirrors the audit_mutations table. One row per committed store
// mutation, ordered within a run by sequence.
type Mutation struct {
	EventID   string         `gorm:"type:uuid;primaryKey"`
	RunID     string         `gorm:"type:uuid;not null;index:uniq_audit_run_sequence,unique,priority:1"`
	Sequence  uint64         `gorm:"not null;index:uniq_audit_run_sequence,unique,priority:2"`
	Name      string         `gorm:"not null"`
	ClientID  uint16         `gorm:"not null;index:idx_audit_client"`
	TxID      uint32         `gorm:"not null"`
	Detail    datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (Mutation) TableName() string { return "audit_mutations" }

func (mutation *Mutation) BeforeCreate(tx *gorm.DB) error {
	if mutation.EventID == "" {
		mutation.EventID = uuid.NewString()
	}
	return nil
}
