package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"locshare/internal/domain"
)

// PeerSQLStore is the durable side of the peer working set. The cache loads
// from it once at startup and flushes back with full-replace semantics.
type PeerSQLStore struct {
	db *DB
}

// NewPeerSQLStore returns a PeerSQLStore over db.
func NewPeerSQLStore(db *DB) *PeerSQLStore { return &PeerSQLStore{db: db} }

// LoadAll reads every persisted peer record.
func (s *PeerSQLStore) LoadAll(ctx context.Context) ([]domain.PeerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, photo_ref, location_label, sharing, status,
		       battery, lat, lon, last_moved_ms, last_reading,
		       delete_at_ms, encryption_key
		FROM peers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PeerRecord
	for rows.Next() {
		rec, err := scanPeer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the table contents for records in one transaction.
func (s *PeerSQLStore) ReplaceAll(ctx context.Context, records []domain.PeerRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM peers`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO peers (id, name, photo_ref, location_label, sharing, status,
		                   battery, lat, lon, last_moved_ms, last_reading,
		                   delete_at_ms, encryption_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		var lat, lon any
		if rec.Coordinate != nil {
			lat, lon = rec.Coordinate.Latitude, rec.Coordinate.Longitude
		}
		var lastReading any
		if rec.LastReading != nil {
			blob, err := json.Marshal(rec.LastReading)
			if err != nil {
				return fmt.Errorf("encode reading for peer %d: %w", rec.ID, err)
			}
			lastReading = string(blob)
		}
		_, err := stmt.ExecContext(ctx,
			int64(rec.ID), rec.Name, rec.PhotoRef, rec.LocationLabel,
			rec.Sharing, int(rec.Status), rec.Battery, lat, lon,
			rec.LastMovedMS, lastReading, rec.DeleteAtMS, rec.EncryptionKey,
		)
		if err != nil {
			return fmt.Errorf("insert peer %d: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

func scanPeer(rows *sql.Rows) (domain.PeerRecord, error) {
	var (
		rec         domain.PeerRecord
		id          int64
		status      int
		lat, lon    sql.NullFloat64
		battery     sql.NullFloat64
		lastReading sql.NullString
		deleteAt    sql.NullInt64
	)
	err := rows.Scan(&id, &rec.Name, &rec.PhotoRef, &rec.LocationLabel,
		&rec.Sharing, &status, &battery, &lat, &lon, &rec.LastMovedMS,
		&lastReading, &deleteAt, &rec.EncryptionKey)
	if err != nil {
		return rec, err
	}
	rec.ID = domain.PeerID(id)
	rec.Status = domain.ShareStatus(status)
	if battery.Valid {
		rec.Battery = &battery.Float64
	}
	if lat.Valid && lon.Valid {
		rec.Coordinate = &domain.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if lastReading.Valid {
		var reading domain.LocationReading
		if err := json.Unmarshal([]byte(lastReading.String), &reading); err != nil {
			return rec, fmt.Errorf("decode reading for peer %d: %w", id, err)
		}
		rec.LastReading = &reading
	}
	if deleteAt.Valid {
		rec.DeleteAtMS = &deleteAt.Int64
	}
	return rec, nil
}

var _ domain.PeerStore = (*PeerSQLStore)(nil)
