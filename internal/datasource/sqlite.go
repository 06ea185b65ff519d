package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

// SQLiteReader provides read access to a catalog SQLite database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadCatalog reads every scenario, choice and takeaway ordered by their
// authored position and validates the result.
func (r *SQLiteReader) LoadCatalog() (*catalog.Catalog, error) {
	scenarios, err := r.LoadScenarios()
	if err != nil {
		return nil, err
	}
	return catalog.New(scenarios)
}

// LoadScenarios reads the raw scenarios without validation.
func (r *SQLiteReader) LoadScenarios() ([]model.Scenario, error) {
	rows, err := r.db.Query(`
		SELECT id, title, subtitle, character, intro
		FROM scenarios
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []model.Scenario
	for rows.Next() {
		var s model.Scenario
		var subtitle, character, intro sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &subtitle, &character, &intro); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		s.Subtitle = subtitle.String
		s.Character = character.String
		s.Intro = intro.String
		scenarios = append(scenarios, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}

	for i := range scenarios {
		choices, err := r.loadChoices(scenarios[i].ID)
		if err != nil {
			return nil, err
		}
		scenarios[i].Choices = choices
	}
	return scenarios, nil
}

func (r *SQLiteReader) loadChoices(scenarioID int) ([]model.Choice, error) {
	rows, err := r.db.Query(`
		SELECT id, title, subtitle, result, clarification
		FROM choices
		WHERE scenario_id = ?
		ORDER BY position, id
	`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query choices for scenario %d: %w", scenarioID, err)
	}
	defer rows.Close()

	var choices []model.Choice
	for rows.Next() {
		var c model.Choice
		var subtitle, clarification sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &subtitle, &c.Outcome.Result, &clarification); err != nil {
			return nil, fmt.Errorf("scan choice: %w", err)
		}
		c.Subtitle = subtitle.String
		c.Outcome.Clarification = clarification.String
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate choices: %w", err)
	}

	for i := range choices {
		takeaways, err := r.loadTakeaways(scenarioID, choices[i].ID)
		if err != nil {
			return nil, err
		}
		choices[i].Outcome.KeyTakeaways = takeaways
	}
	return choices, nil
}

func (r *SQLiteReader) loadTakeaways(scenarioID, choiceID int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT text FROM takeaways
		WHERE scenario_id = ? AND choice_id = ?
		ORDER BY position
	`, scenarioID, choiceID)
	if err != nil {
		return nil, fmt.Errorf("query takeaways: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan takeaway: %w", err)
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// CountScenarios returns the number of scenarios in the database
func (r *SQLiteReader) CountScenarios() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scenarios: %w", err)
	}
	return n, nil
}

// ExportedAt returns the export timestamp stored in the meta table.
func (r *SQLiteReader) ExportedAt() (time.Time, error) {
	var raw string
	if err := r.db.QueryRow(`SELECT value FROM meta WHERE key = 'exported_at'`).Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("read exported_at: %w", err)
	}
	return time.Parse(time.RFC3339, raw)
}
