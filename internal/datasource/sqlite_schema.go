package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
)

// SchemaVersion tracks the catalog database layout.
const SchemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS scenarios (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		subtitle TEXT,
		character TEXT,
		intro TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS choices (
		scenario_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		subtitle TEXT,
		result TEXT NOT NULL,
		clarification TEXT,
		PRIMARY KEY (scenario_id, id),
		FOREIGN KEY (scenario_id) REFERENCES scenarios(id)
	)`,
	`CREATE TABLE IF NOT EXISTS takeaways (
		scenario_id INTEGER NOT NULL,
		choice_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (scenario_id, choice_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scenarios_position ON scenarios(position)`,
	`CREATE INDEX IF NOT EXISTS idx_choices_position ON choices(scenario_id, position)`,
}

// CreateSchema creates all catalog tables and indexes.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// WriteSQLite writes cat to a fresh database at path, replacing any
// existing file.
func WriteSQLite(cat *catalog.Catalog, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for pos, s := range cat.Scenarios() {
		if _, err := tx.Exec(
			`INSERT INTO scenarios (id, position, title, subtitle, character, intro) VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, pos, s.Title, s.Subtitle, s.Character, s.Intro,
		); err != nil {
			return fmt.Errorf("insert scenario %d: %w", s.ID, err)
		}
		for cpos, c := range s.Choices {
			if _, err := tx.Exec(
				`INSERT INTO choices (scenario_id, id, position, title, subtitle, result, clarification) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				s.ID, c.ID, cpos, c.Title, c.Subtitle, c.Outcome.Result, c.Outcome.Clarification,
			); err != nil {
				return fmt.Errorf("insert choice %d/%d: %w", s.ID, c.ID, err)
			}
			for tpos, text := range c.Outcome.KeyTakeaways {
				if _, err := tx.Exec(
					`INSERT INTO takeaways (scenario_id, choice_id, position, text) VALUES (?, ?, ?, ?)`,
					s.ID, c.ID, tpos, text,
				); err != nil {
					return fmt.Errorf("insert takeaway %d/%d/%d: %w", s.ID, c.ID, tpos, err)
				}
			}
		}
	}

	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
		"scenario_count": strconv.Itoa(cat.Len()),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
