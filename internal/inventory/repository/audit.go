package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/unitstock/unitstock-backend/pkg/database"
	"github.com/unitstock/unitstock-backend/pkg/errors"
)

// AuditEntry is an immutable record of one field-level change to an item.
// Entries are append-only and are never updated or deleted.
type AuditEntry struct {
	ID        string    `db:"id" json:"id"`
	Seq       int64     `db:"seq" json:"-"`
	ItemID    string    `db:"item_id" json:"item_id"`
	FieldName string    `db:"field_name" json:"field_name"`
	OldValue  string    `db:"old_value" json:"old_value"`
	NewValue  string    `db:"new_value" json:"new_value"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	ChangedBy string    `db:"changed_by" json:"changed_by"`
	ChangedAt time.Time `db:"changed_at" json:"changed_at"`
}

// AuditRepository handles audit trail persistence.
// All operations are append-only: no UPDATE or DELETE is permitted.
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends a new audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO item_audit_log (
			id, item_id, field_name, old_value, new_value, reason, changed_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq, changed_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.ItemID, entry.FieldName, entry.OldValue,
		entry.NewValue, entry.Reason, entry.ChangedBy,
	).Scan(&entry.Seq, &entry.ChangedAt)
	if err != nil {
		return errors.Persistence(err)
	}

	return nil
}

// ListByItem lists all audit entries for an item, oldest first.
// Ties on changed_at are broken by insertion order (seq).
func (r *AuditRepository) ListByItem(ctx context.Context, itemID string) ([]*AuditEntry, error) {
	query := `
		SELECT id, seq, item_id, field_name, old_value, new_value, reason, changed_by, changed_at
		FROM item_audit_log
		WHERE item_id = $1
		ORDER BY changed_at ASC, seq ASC
	`

	var entries []*AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, itemID); err != nil {
		return nil, errors.Persistence(err)
	}

	return entries, nil
}
