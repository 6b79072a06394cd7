package export

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vanderheijden86/sentiboard/pkg/analysis"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/model"
	"github.com/vanderheijden86/sentiboard/pkg/version"

	_ "modernc.org/sqlite"
)

// DefaultSQLiteFile is the database file name used inside an export directory.
const DefaultSQLiteFile = "sentiboard.sqlite3"

// SQLiteExporter writes a dataset and its full rankings to a SQLite database.
type SQLiteExporter struct {
	Dataset *loader.Dataset
	// Now is stamped into export_meta; defaults to time.Now.
	Now func() time.Time
}

// NewSQLiteExporter creates an exporter for ds.
func NewSQLiteExporter(ds *loader.Dataset) *SQLiteExporter {
	return &SQLiteExporter{Dataset: ds, Now: time.Now}
}

// Export replaces dbPath with a fresh database.
func (e *SQLiteExporter) Export(dbPath string) error {
	if e.Dataset == nil {
		return fmt.Errorf("sqlite export: no dataset")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := e.insertInfluencers(db); err != nil {
		return fmt.Errorf("insert influencers: %w", err)
	}
	if err := e.insertSentiment(db); err != nil {
		return fmt.Errorf("insert sentiment: %w", err)
	}
	if err := e.insertRankings(db); err != nil {
		return fmt.Errorf("insert rankings: %w", err)
	}
	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

func (e *SQLiteExporter) insertInfluencers(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Duplicate channel rows are legal in the CSV; the first one wins, as in
	// the summary lookup.
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO influencers (
			channel_name, subscriber_count, average_views,
			engagement_rate, sentiment_weighted_engagement, total_score
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, inf := range e.Dataset.Influencers {
		if _, err := stmt.Exec(
			inf.ChannelName,
			inf.SubscriberCount,
			inf.AverageViews,
			nullFloat(inf.EngagementRate),
			nullFloat(inf.SentimentWeightedEngagement),
			nullFloat(inf.TotalScore),
		); err != nil {
			return fmt.Errorf("%s: %w", inf.ChannelName, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertSentiment(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sentiment (channel_name, video_title, positive, neutral, negative)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range e.Dataset.Sentiment {
		if _, err := stmt.Exec(rec.ChannelName, rec.VideoTitle, rec.Positive, rec.Neutral, rec.Negative); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertRankings(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO rankings (metric, rank, channel_name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range model.Metrics {
		for _, r := range analysis.Rank(e.Dataset.Influencers, m, 0) {
			if _, err := stmt.Exec(m.String(), r.Rank, r.Influencer.ChannelName, nullFloat(float64(r.Value))); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	meta := map[string]string{
		"schema_version":   strconv.Itoa(SchemaVersion),
		"exported_at":      now().UTC().Format(time.RFC3339),
		"version":          version.Version,
		"influencers_path": e.Dataset.Paths.Influencers,
		"sentiment_path":   e.Dataset.Paths.Sentiment,
		"influencer_count": strconv.Itoa(len(e.Dataset.Influencers)),
		"sentiment_count":  strconv.Itoa(len(e.Dataset.Sentiment)),
	}
	for k, v := range meta {
		if _, err := db.Exec(`INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// nullFloat maps NaN and infinities to SQL NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
