package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/datasync/keymarker/internal/sessions/domain"
)

// markerRepository implements domain.MarkerRepository using SQLite.
type markerRepository struct {
	db *sql.DB
}

func newMarkerRepository(db *sql.DB) *markerRepository {
	return &markerRepository{db: db}
}

var _ domain.MarkerRepository = (*markerRepository)(nil)

// Append inserts a marker and sets its ID.
func (r *markerRepository) Append(ctx context.Context, marker *domain.Marker) error {
	model := toMarkerModel(marker)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO markers (session_id, seq, name, kind, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		model.SessionID, model.Seq, model.Name, model.Kind, model.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert marker: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	marker.SetID(id)
	return nil
}

// ListBySession returns a session's markers in emission order.
func (r *markerRepository) ListBySession(ctx context.Context, sessionID int64) ([]*domain.Marker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, seq, name, kind, recorded_at FROM markers WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var markers []*domain.Marker
	for rows.Next() {
		var m MarkerModel
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Seq, &m.Name, &m.Kind, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan marker row: %w", err)
		}
		markers = append(markers, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marker rows: %w", err)
	}
	return markers, nil
}

// CountBySession returns how many markers a session holds.
func (r *markerRepository) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM markers WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count markers: %w", err)
	}
	return n, nil
}
