// Package storage persists sessions, conversation logs, and analytics
// events in a local SQLite database.
package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/session"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for sessions, messages, and events.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "scout.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Sessions ---

// SaveSession upserts the session row. Message history is stored separately
// through AppendMessage; the row carries the rest of the state as JSON.
func (s *Store) SaveSession(sess *session.Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	recs, err := json.Marshal(sess.Recommendations)
	if err != nil {
		return fmt.Errorf("marshaling recommendations: %w", err)
	}
	actions, err := json.Marshal(sess.NextActions)
	if err != nil {
		return fmt.Errorf("marshaling next actions: %w", err)
	}
	sessCtx, err := json.Marshal(sess.Context)
	if err != nil {
		return fmt.Errorf("marshaling context: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, stage, profile_json, recommendations_json, next_actions_json, context_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			stage = excluded.stage,
			profile_json = excluded.profile_json,
			recommendations_json = excluded.recommendations_json,
			next_actions_json = excluded.next_actions_json,
			context_json = excluded.context_json,
			updated_at = excluded.updated_at`,
		sess.ID, string(sess.Stage), string(profile), string(recs), string(actions), string(sessCtx),
		sess.CreatedAt.UTC().Format(time.RFC3339), sess.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetSession loads a session and its full message history.
func (s *Store) GetSession(id string) (*session.Session, error) {
	var (
		sess                  session.Session
		stage                 string
		profileJSON, recsJSON string
		actionsJSON, ctxJSON  string
		createdAt, updatedAt  string
	)
	err := s.db.QueryRow(`
		SELECT id, stage, profile_json, recommendations_json, next_actions_json, context_json, created_at, updated_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &stage, &profileJSON, &recsJSON, &actionsJSON, &ctxJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sess.Stage = session.Stage(stage)
	if err := json.Unmarshal([]byte(profileJSON), &sess.Profile); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	var recs []catalog.ServicePackage
	if err := json.Unmarshal([]byte(recsJSON), &recs); err != nil {
		return nil, fmt.Errorf("parsing recommendations: %w", err)
	}
	sess.Recommendations = recs
	if err := json.Unmarshal([]byte(actionsJSON), &sess.NextActions); err != nil {
		return nil, fmt.Errorf("parsing next actions: %w", err)
	}
	if err := json.Unmarshal([]byte(ctxJSON), &sess.Context); err != nil {
		return nil, fmt.Errorf("parsing context: %w", err)
	}
	if sess.Context == nil {
		sess.Context = make(map[string]string)
	}
	if sess.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	sess.History, err = s.GetMessages(id)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	return &sess, nil
}

// ListSessions returns summaries of sessions created after since, most
// recently updated first.
func (s *Store) ListSessions(since time.Time, limit int) ([]SessionSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, stage, created_at, updated_at
		FROM sessions WHERE created_at > ?
		ORDER BY updated_at DESC LIMIT ?`,
		since.UTC().Format(time.RFC3339), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var createdAt, updatedAt string
		if err := rows.Scan(&sum.ID, &sum.Stage, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		results = append(results, sum)
	}
	return results, rows.Err()
}

// DeleteSessionsBefore removes sessions (and their messages and events)
// whose last update is older than the cutoff. Returns how many sessions
// were deleted.
func (s *Store) DeleteSessionsBefore(cutoff time.Time) (int, error) {
	ts := cutoff.UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning cleanup transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`, ts); err != nil {
		return 0, fmt.Errorf("deleting messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM events WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`, ts); err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE updated_at < ?`, ts)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing cleanup: %w", err)
	}
	return int(n), nil
}

// --- Messages ---

// AppendMessage stores one conversation turn.
func (s *Store) AppendMessage(sessionID string, msg session.Message) error {
	var metadata string
	if len(msg.Metadata) > 0 {
		b, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		metadata = string(b)
	}
	_, err := s.db.Exec(`
		INSERT INTO messages (id, session_id, role, content, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, sessionID, msg.Role, msg.Content, metadata,
		msg.Timestamp.UTC().Format(time.RFC3339),
	)
	return err
}

// GetMessages returns a session's messages in chronological order.
func (s *Store) GetMessages(sessionID string) ([]session.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, role, content, metadata_json, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []session.Message
	for rows.Next() {
		var msg session.Message
		var metadata, createdAt string
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &metadata, &createdAt); err != nil {
			return nil, err
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &msg.Metadata); err != nil {
				return nil, fmt.Errorf("parsing metadata: %w", err)
			}
		}
		if msg.Timestamp, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, msg)
	}
	return results, rows.Err()
}

// --- Events ---

// TrackEvent records one analytics event.
func (s *Store) TrackEvent(e Event) error {
	_, err := s.db.Exec(`
		INSERT INTO events (id, session_id, type, data_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Type, e.DataJSON,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetAnalytics summarizes activity since the cutoff. sessionID narrows the
// event counts to one session when non-empty.
func (s *Store) GetAnalytics(since time.Time, sessionID string) (Analytics, error) {
	ts := since.UTC().Format(time.RFC3339)
	a := Analytics{EventCounts: make(map[string]int)}

	query := `SELECT type, COUNT(*) FROM events WHERE created_at > ?`
	args := []any{ts}
	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}
	query += ` GROUP BY type`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return Analytics{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return Analytics{}, err
		}
		a.EventCounts[typ] = n
	}
	if err := rows.Err(); err != nil {
		return Analytics{}, err
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE created_at > ?`, ts).Scan(&a.Sessions); err != nil {
		return Analytics{}, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE created_at > ?`, ts).Scan(&a.Messages); err != nil {
		return Analytics{}, err
	}
	return a, nil
}
