package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/stockctl/internal/core/domain"
	"github.com/custodia-labs/stockctl/internal/core/ports/driven"
)

// Ensure changeStore implements the port.
var _ driven.ChangeStore = (*changeStore)(nil)

type changeStore struct {
	db *sql.DB
}

// Mark upserts a change mark. A later mark for the same product replaces
// the earlier quantity and label, keeping any previously known value when
// the new mark omits it.
func (s *changeStore) Mark(ctx context.Context, change domain.ChangeRecord) error {
	updatedAt := change.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	var lastQty interface{}
	if change.LastQty != nil {
		lastQty = *change.LastQty
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_changes (product_id, last_qty, last_location_label, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET
			last_qty = COALESCE(excluded.last_qty, session_changes.last_qty),
			last_location_label = CASE
				WHEN excluded.last_location_label != '' THEN excluded.last_location_label
				ELSE session_changes.last_location_label
			END,
			updated_at = excluded.updated_at`,
		change.ProductID, lastQty, change.LastLocationLabel, updatedAt)
	if err != nil {
		return fmt.Errorf("mark session change: %w", err)
	}
	return nil
}

func (s *changeStore) List(ctx context.Context) ([]domain.ChangeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, last_qty, last_location_label, updated_at
		FROM session_changes ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list session changes: %w", err)
	}
	defer rows.Close()

	var changes []domain.ChangeRecord
	for rows.Next() {
		var change domain.ChangeRecord
		var lastQty sql.NullInt64
		if err := rows.Scan(&change.ProductID, &lastQty, &change.LastLocationLabel, &change.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session change: %w", err)
		}
		if lastQty.Valid {
			qty := int(lastQty.Int64)
			change.LastQty = &qty
		}
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list session changes: %w", err)
	}
	return changes, nil
}

func (s *changeStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_changes`); err != nil {
		return fmt.Errorf("clear session changes: %w", err)
	}
	return nil
}
