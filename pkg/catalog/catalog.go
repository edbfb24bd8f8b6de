// Package catalog persists track metadata (path, BPM, key, first beat,
// duration, drop marker, integrated loudness, high-resolution waveform
// peaks) in a local SQLite database; cue points and loops are not stored
// here. This is so
// the UI can browse a library without re-decoding every prepared stem
// file on every launch.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/google/uuid"

	"github.com/nullstage/quaddeck/pkg/trackio"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id TEXT PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	bpm_original REAL NOT NULL,
	bpm_effective REAL NOT NULL,
	key TEXT NOT NULL,
	first_beat_sample INTEGER NOT NULL,
	duration_samples INTEGER NOT NULL,
	drop_marker_sample INTEGER,
	integrated_loudness REAL
);

CREATE TABLE IF NOT EXISTS high_res_peaks (
	track_id TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
	bucket_index INTEGER NOT NULL,
	min_value REAL NOT NULL,
	max_value REAL NOT NULL,
	PRIMARY KEY (track_id, bucket_index)
);
`

// Entry is a catalog record: enough to populate a browse list and kick
// off a loader.Request without decoding the stem file.
type Entry struct {
	ID               string
	Path             string
	BPMOriginal      float64
	BPMEffective     float64
	Key              string
	FirstBeatSample  uint64
	DurationSamples  uint64
	DropMarkerSample *uint64
}

// Catalog wraps a SQLite-backed track database.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database at path and
// ensures its schema exists.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: migrate schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error { return c.db.Close() }

// Upsert inserts or replaces a track's catalog entry and high-resolution
// peak table, derived from freshly decoded metadata.
func (c *Catalog) Upsert(path string, meta trackio.TrackMetadata, highResPeaks []trackio.PeakPair) (string, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return "", fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := c.existingID(path)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	var loudness any
	if meta.IntegratedLoudness != nil {
		loudness = *meta.IntegratedLoudness
	}
	var drop any
	if meta.DropMarkerSample != nil {
		drop = *meta.DropMarkerSample
	}

	_, err = tx.Exec(`
		INSERT INTO tracks (id, path, bpm_original, bpm_effective, key, first_beat_sample, duration_samples, drop_marker_sample, integrated_loudness)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			bpm_original=excluded.bpm_original,
			bpm_effective=excluded.bpm_effective,
			key=excluded.key,
			first_beat_sample=excluded.first_beat_sample,
			duration_samples=excluded.duration_samples,
			drop_marker_sample=excluded.drop_marker_sample,
			integrated_loudness=excluded.integrated_loudness
	`, id, path, meta.BPMOriginal, meta.BPMEffective, meta.Key, meta.FirstBeatSample, meta.DurationSamples, drop, loudness)
	if err != nil {
		return "", fmt.Errorf("catalog: upsert track: %w", err)
	}

	if len(highResPeaks) > 0 {
		if _, err := tx.Exec(`DELETE FROM high_res_peaks WHERE track_id = ?`, id); err != nil {
			return "", fmt.Errorf("catalog: clear peaks: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO high_res_peaks (track_id, bucket_index, min_value, max_value) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("catalog: prepare peak insert: %w", err)
		}
		defer stmt.Close()
		for i, p := range highResPeaks {
			if _, err := stmt.Exec(id, i, p.Min, p.Max); err != nil {
				return "", fmt.Errorf("catalog: insert peak %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("catalog: commit: %w", err)
	}
	return id, nil
}

func (c *Catalog) existingID(path string) (string, error) {
	var id string
	err := c.db.QueryRow(`SELECT id FROM tracks WHERE path = ?`, path).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: lookup %s: %w", path, err)
	}
	return id, nil
}

// List returns every catalogued track, ordered by path.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query(`SELECT id, path, bpm_original, bpm_effective, key, first_beat_sample, duration_samples, drop_marker_sample, integrated_loudness FROM tracks ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var drop sql.NullInt64
		var loudness sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Path, &e.BPMOriginal, &e.BPMEffective, &e.Key, &e.FirstBeatSample, &e.DurationSamples, &drop, &loudness); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		if drop.Valid {
			v := uint64(drop.Int64)
			e.DropMarkerSample = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HighResPeaks loads the full-resolution waveform peaks for one track.
func (c *Catalog) HighResPeaks(trackID string) ([]trackio.PeakPair, error) {
	rows, err := c.db.Query(`SELECT min_value, max_value FROM high_res_peaks WHERE track_id = ? ORDER BY bucket_index`, trackID)
	if err != nil {
		return nil, fmt.Errorf("catalog: peaks for %s: %w", trackID, err)
	}
	defer rows.Close()

	var peaks []trackio.PeakPair
	for rows.Next() {
		var p trackio.PeakPair
		if err := rows.Scan(&p.Min, &p.Max); err != nil {
			return nil, fmt.Errorf("catalog: scan peak: %w", err)
		}
		peaks = append(peaks, p)
	}
	return peaks, rows.Err()
}

// Remove deletes a track's catalog entry and peaks.
func (c *Catalog) Remove(path string) error {
	if _, err := c.db.Exec(`DELETE FROM tracks WHERE path = ?`, path); err != nil {
		return fmt.Errorf("catalog: remove %s: %w", path, err)
	}
	return nil
}
