package store

import (
	"context"
	"encoding/json"
	"fmt"

	"locshare/internal/domain"
)

// HistorySQLStore appends received readings to the location-history table,
// keyed by {peer, timestamp}.
type HistorySQLStore struct {
	db *DB
}

// NewHistorySQLStore returns a HistorySQLStore over db.
func NewHistorySQLStore(db *DB) *HistorySQLStore { return &HistorySQLStore{db: db} }

// Append stores one reading. A reading with the same {peer, timestamp} key
// replaces the previous row.
func (s *HistorySQLStore) Append(ctx context.Context, reading domain.LocationReading) error {
	blob, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO location_history (peer_id, ts_ms, reading)
		VALUES (?, ?, ?)`,
		int64(reading.PeerID), reading.TimestampMS, string(blob))
	return err
}

// ByPeer returns the stored readings for id ordered by timestamp.
func (s *HistorySQLStore) ByPeer(ctx context.Context, id domain.PeerID) ([]domain.LocationReading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reading FROM location_history
		WHERE peer_id = ? ORDER BY ts_ms`,
		int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LocationReading
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var reading domain.LocationReading
		if err := json.Unmarshal([]byte(blob), &reading); err != nil {
			return nil, fmt.Errorf("decode reading: %w", err)
		}
		out = append(out, reading)
	}
	return out, rows.Err()
}

var _ domain.HistoryStore = (*HistorySQLStore)(nil)
