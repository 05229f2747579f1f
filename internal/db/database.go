package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Profile is a remembered player identity. Only who sat at the table is
// kept, never what happened in a round.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

type Database struct {
	db     *sql.DB
	driver string
}

// NewDatabase opens a sqlite3 file or a postgres connection string and
// makes sure the schema exists
func NewDatabase(driver, dsn string) (*Database, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite serialises writers anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}

	d := &Database{db: db, driver: driver}
	if err := d.initTables(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// initTables creates the necessary tables if they don't exist
func (d *Database) initTables() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			created_at BIGINT NOT NULL,
			last_seen BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating profiles table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// rebind rewrites ? placeholders into $n for postgres.
func (d *Database) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SaveProfile inserts a profile or updates the stored one with the same ID
func (d *Database) SaveProfile(p *Profile) error {
	_, err := d.db.Exec(d.rebind(`
		INSERT INTO profiles (id, username, created_at, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET username = excluded.username, last_seen = excluded.last_seen
	`), p.ID, p.Username, p.CreatedAt.UnixMilli(), p.LastSeen.UnixMilli())
	if err != nil {
		return fmt.Errorf("error saving profile %s: %w", p.ID, err)
	}
	return nil
}

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	var createdAt, lastSeen int64

	if err := row.Scan(&p.ID, &p.Username, &createdAt, &lastSeen); err != nil {
		return nil, err
	}

	p.CreatedAt = time.UnixMilli(createdAt)
	p.LastSeen = time.UnixMilli(lastSeen)
	return &p, nil
}

func (d *Database) getProfileWhere(column, value string) (*Profile, error) {
	row := d.db.QueryRow(d.rebind(
		"SELECT id, username, created_at, last_seen FROM profiles WHERE "+column+" = ?",
	), value)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil // Profile not found
	}
	if err != nil {
		return nil, fmt.Errorf("error reading profile: %w", err)
	}
	return p, nil
}

// GetProfile retrieves a profile by ID. A missing profile is (nil, nil).
func (d *Database) GetProfile(id string) (*Profile, error) {
	return d.getProfileWhere("id", id)
}

// GetProfileByName retrieves a profile by username. A missing profile is
// (nil, nil).
func (d *Database) GetProfileByName(username string) (*Profile, error) {
	return d.getProfileWhere("username", username)
}

// ListProfiles returns every profile ordered by username
func (d *Database) ListProfiles() ([]*Profile, error) {
	rows, err := d.db.Query(`
		SELECT id, username, created_at, last_seen FROM profiles ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []*Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// DeleteProfile removes a profile and reports whether one was removed
func (d *Database) DeleteProfile(id string) (bool, error) {
	res, err := d.db.Exec(d.rebind("DELETE FROM profiles WHERE id = ?"), id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
