package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/codewithboateng/speclint/internal/model"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.source, r.version, r.errors, r.warnings, r.infos,
		       (SELECT COUNT(1) FROM findings f WHERE f.run_id = r.id) AS findings
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RunRow{}
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Source, &rr.Version,
			&rr.Counts.Error, &rr.Counts.Warning, &rr.Counts.Info, &rr.Findings); err != nil {
			return nil, err
		}
		rr.StartedAt = parseTime(startedAtStr)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run at or above a minimum severity,
// in engine output order.
func (db *DB) ListFindings(runID string, minSeverity model.Severity) ([]model.Finding, error) {
	const q = `
		SELECT rule_id, severity, message, file, line, related_ids
		  FROM findings
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END) >= ?
		 ORDER BY seq`
	rows, err := db.conn.Query(q, runID, minSeverity.Rank())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Finding{}
	for rows.Next() {
		var (
			f       model.Finding
			sev     string
			related string
		)
		if err := rows.Scan(&f.RuleID, &sev, &f.Message, &f.File, &f.Line, &related); err != nil {
			return nil, err
		}
		f.Severity = model.Severity(sev)
		f.RelatedIDs = splitIDs(related)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// parseTime reads RFC3339Nano first, falling back to RFC3339; zero if neither.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
