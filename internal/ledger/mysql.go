package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// MySQLStore implements Store over MySQL with one table per partition. It
// uses only plain INSERT and full ordered SELECT — never a transaction — so
// the guarantees it offers the coordinator are exactly the Store contract's,
// even though the engine underneath could do more.
type MySQLStore struct {
	db *sql.DB

	mu      sync.RWMutex
	headers map[string][]string // partition -> registered column headers
}

// NewMySQLStore returns a store bound to the given database.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, headers: make(map[string][]string)}
}

// EnsurePartition registers the partition's column layout and creates its
// table if absent. Partition and column names must be lowercase snake_case
// identifiers; anything else is rejected before touching the database.
func (s *MySQLStore) EnsurePartition(ctx context.Context, partition string, headers []string) error {
	if !identRe.MatchString(partition) {
		return fmt.Errorf("invalid partition name %q", partition)
	}
	cols := make([]string, 0, len(headers))
	for _, h := range headers {
		if !identRe.MatchString(h) {
			return fmt.Errorf("invalid column name %q in partition %q", h, partition)
		}
		cols = append(cols, fmt.Sprintf("`%s` TEXT NOT NULL", h))
	}
	q := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS `%s` (id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, %s, created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP)",
		partition, strings.Join(cols, ", "),
	)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure partition %s: %w", partition, err)
	}
	s.mu.Lock()
	s.headers[partition] = append([]string(nil), headers...)
	s.mu.Unlock()
	return nil
}

func (s *MySQLStore) columns(partition string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cols, ok := s.headers[partition]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPartition, partition)
	}
	return cols, nil
}

// Append inserts one row. The returned error only reflects whether MySQL
// accepted the statement; visibility to ReadAll is the caller's problem.
func (s *MySQLStore) Append(ctx context.Context, partition string, row []string) error {
	cols, err := s.columns(partition)
	if err != nil {
		return err
	}
	if len(row) != len(cols) {
		return fmt.Errorf("partition %s: row has %d values, want %d", partition, len(row), len(cols))
	}
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
		marks[i] = "?"
		args[i] = row[i]
	}
	q := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		partition, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("append to %s: %w", partition, err)
	}
	return nil
}

// ReadAll returns every row of the partition in insertion order.
func (s *MySQLStore) ReadAll(ctx context.Context, partition string) ([][]string, error) {
	cols, err := s.columns(partition)
	if err != nil {
		return nil, err
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
	}
	q := fmt.Sprintf("SELECT %s FROM `%s` ORDER BY id", strings.Join(quoted, ", "), partition)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", partition, err)
	}
	defer rows.Close()

	out := make([][]string, 0, 64)
	vals := make([]sql.RawBytes, len(cols))
	scan := make([]interface{}, len(cols))
	for i := range vals {
		scan[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i := range vals {
			row[i] = string(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
