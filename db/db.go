// Package db persists classification results to sqlite, one row per
// non-noise label, grouped by session.
package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	sessionID string
}

// LabelRecord is one persisted classification.
type LabelRecord struct {
	SessionID string    `json:"session_id"`
	Label     string    `json:"label"`
	WindowLen int       `json:"window_len"`
	Timestamp time.Time `json:"timestamp"`
}

func (r *LabelRecord) String() string {
	return fmt.Sprintf("Session: %s, Label: %s, WindowLen: %d, Time: %s",
		r.SessionID, r.Label, r.WindowLen, r.Timestamp.Format(time.RFC3339))
}

// NewDB opens (or creates) the session database at path and starts a new
// recording session.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS labels (
			session_id TEXT,
			label TEXT,
			window_len INTEGER,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, sessionID: uuid.NewString()}, nil
}

// SessionID identifies the classifications recorded by this process.
func (db *DB) SessionID() string { return db.sessionID }

// RecordLabel persists one classification. Satisfies pipeline.Recorder.
func (db *DB) RecordLabel(label string, windowLen int) error {
	_, err := db.Exec(
		"INSERT INTO labels (session_id, label, window_len, timestamp) VALUES (?, ?, ?, ?)",
		db.sessionID, label, windowLen, time.Now().UTC(),
	)
	return err
}

// Labels returns the most recent classifications, newest first.
func (db *DB) Labels(limit int) ([]LabelRecord, error) {
	rows, err := db.Query(
		"SELECT session_id, label, window_len, timestamp FROM labels ORDER BY rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LabelRecord
	for rows.Next() {
		var r LabelRecord
		if err := rows.Scan(&r.SessionID, &r.Label, &r.WindowLen, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// AttachAdminRoutes mounts debugging endpoints on mux. These are intended
// for localhost use only.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/backup", func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()

		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	})
}
