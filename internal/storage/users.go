package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Roles accepted for API users. Waiver writes require RoleAdmin.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) CreateUser(username, passHash, role string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, errors.New("username required")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != RoleAdmin && role != RoleViewer {
		return 0, fmt.Errorf("unknown role %q (want %s or %s)", role, RoleAdmin, RoleViewer)
	}
	res, err := db.conn.Exec(`INSERT INTO users(username, pass_hash, role, created_at) VALUES(?,?,?,?)`,
		username, passHash, role, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", username, err)
	}
	return res.LastInsertId()
}

// GetUserByUsername returns the user and its password hash.
func (db *DB) GetUserByUsername(username string) (User, string, error) {
	row := db.conn.QueryRow(`SELECT id, username, role, created_at, pass_hash FROM users WHERE username=?`, username)
	var (
		u       User
		hash    string
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &created, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, "", ErrNotFound
		}
		return User{}, "", err
	}
	u.CreatedAt = parseTime(created)
	return u, hash, nil
}

func (db *DB) CreateSession(userID int64, token string, expires time.Time) error {
	return execOne(db.conn, `INSERT INTO sessions(token, user_id, expires_at, created_at) VALUES(?,?,?,?)`,
		token, userID, expires.UTC().Format(timeFormat), time.Now().UTC().Format(timeFormat))
}

// GetSession resolves an unexpired session token to its user.
func (db *DB) GetSession(token string) (User, error) {
	row := db.conn.QueryRow(`
SELECT u.id, u.username, u.role, u.created_at
  FROM sessions s JOIN users u ON s.user_id = u.id
 WHERE s.token = ? AND s.expires_at > ?`, token, time.Now().UTC().Format(timeFormat))
	var (
		u       User
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func (db *DB) DeleteSession(token string) error {
	return execOne(db.conn, `DELETE FROM sessions WHERE token=?`, token)
}

func (db *DB) LogAudit(username, action, resource string, meta map[string]any) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`INSERT INTO audit(ts, username, action, resource, meta_json) VALUES(?,?,?,?,?)`,
		time.Now().UTC().Format(timeFormat), username, action, resource, string(b))
	return err
}

// execOne runs a statement that must touch at least one row.
func execOne(db *sql.DB, q string, args ...any) error {
	res, err := db.Exec(q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
