package export

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is recorded in export_meta.
const SchemaVersion = 1

// CreateSchema creates the export tables.
func CreateSchema(db *sql.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"influencers", `
			CREATE TABLE IF NOT EXISTS influencers (
				channel_name TEXT PRIMARY KEY,
				subscriber_count INTEGER NOT NULL,
				average_views INTEGER NOT NULL,
				engagement_rate REAL,
				sentiment_weighted_engagement REAL,
				total_score REAL
			)`},
		{"sentiment", `
			CREATE TABLE IF NOT EXISTS sentiment (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				channel_name TEXT NOT NULL,
				video_title TEXT NOT NULL,
				positive INTEGER NOT NULL,
				neutral INTEGER NOT NULL,
				negative INTEGER NOT NULL
			)`},
		{"rankings", `
			CREATE TABLE IF NOT EXISTS rankings (
				metric TEXT NOT NULL,
				rank INTEGER NOT NULL,
				channel_name TEXT NOT NULL,
				value REAL,
				PRIMARY KEY (metric, rank)
			)`},
		{"export_meta", `
			CREATE TABLE IF NOT EXISTS export_meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`},
		{"sentiment index", `CREATE INDEX IF NOT EXISTS idx_sentiment_channel ON sentiment(channel_name)`},
	}
	for _, s := range stmts {
		if _, err := db.Exec(s.sql); err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
