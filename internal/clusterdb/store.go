// Package clusterdb persists clustering results to SQLite. Persistence is a
// caller-side concern; the clustering engine itself never writes anywhere.
// This store backs the CLI and keeps one row per run plus one row per
// emitted cluster.
package clusterdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/openbeamline/tpxcluster/internal/cluster"
)

type Store struct {
	*sql.DB
}

// Open opens (or creates) a result database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			algorithm         TEXT NOT NULL,
			radius            DOUBLE NOT NULL,
			temporal_window   DOUBLE NOT NULL,
			min_cluster_size  BIGINT NOT NULL,
			hits_in           BIGINT NOT NULL,
			clusters_out      BIGINT NOT NULL,
			noise_hits        BIGINT NOT NULL,
			duration_us       BIGINT NOT NULL,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS clusters (
			run_id            TEXT NOT NULL,
			cluster_idx       BIGINT NOT NULL,
			centroid_x        DOUBLE NOT NULL,
			centroid_y        DOUBLE NOT NULL,
			total_tot         BIGINT NOT NULL,
			time_min          BIGINT NOT NULL,
			time_max          BIGINT NOT NULL,
			size              BIGINT NOT NULL,
			PRIMARY KEY (run_id, cluster_idx)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{DB: db}, nil
}

// SaveRun writes one run and all its clusters in a single transaction.
func (s *Store) SaveRun(summary cluster.RunSummary, cfg cluster.Config, clusters []cluster.Cluster) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, algorithm, radius, temporal_window,
			min_cluster_size, hits_in, clusters_out, noise_hits, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.Algorithm, cfg.Radius, cfg.TemporalWindow,
		cfg.MinClusterSize, summary.HitsIn, summary.ClustersOut,
		summary.NoiseHits, summary.Duration.Microseconds())
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", summary.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO clusters (run_id, cluster_idx, centroid_x, centroid_y,
			total_tot, time_min, time_max, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range clusters {
		_, err = stmt.Exec(summary.RunID, i, c.CentroidX, c.CentroidY,
			c.TotalToT, c.TimeMin, c.TimeMax, c.Size)
		if err != nil {
			return fmt.Errorf("failed to insert cluster %d of run %s: %w", i, summary.RunID, err)
		}
	}

	return tx.Commit()
}

// RunCount returns the number of persisted runs.
func (s *Store) RunCount() (int, error) {
	var n int
	err := s.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// ClusterCount returns the number of persisted clusters for a run.
func (s *Store) ClusterCount(runID string) (int, error) {
	var n int
	err := s.QueryRow(`SELECT COUNT(*) FROM clusters WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
