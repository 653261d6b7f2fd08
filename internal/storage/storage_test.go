package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/speclint/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "speclint.db"))
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRun(id string, started time.Time) *model.Run {
	findings := []model.Finding{
		{RuleID: "UNIQUE_IDS", Severity: model.SeverityError, Message: "Duplicate requirement ID 'REQ-001' also in a.md:3", File: "a.md", Line: 9, RelatedIDs: []string{"REQ-001"}},
		{RuleID: "SEQUENCE_GAPS", Severity: model.SeverityWarning, Message: "Sequence gaps detected: 2", RelatedIDs: []string{}},
		{RuleID: "TEST_MISSING_IN_JUNIT", Severity: model.SeverityWarning, Message: "Declared tests not found in JUnit: TC-002, TC-003", RelatedIDs: []string{"TC-002", "TC-003"}},
		{RuleID: "DOC_NOTE", Severity: model.SeverityInfo, Message: "note", RelatedIDs: []string{}},
	}
	return &model.Run{
		ID:        id,
		StartedAt: started,
		Source:    "docs",
		Version:   model.Version,
		Summary:   model.Summary{Requirements: 3, Tests: 2},
		Findings:  findings,
		Counts:    model.CountFindings(findings),
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	run := sampleRun("run-a", started)
	require.NoError(t, db.SaveRun(run))

	got, err := db.LoadRun("run-a")
	require.NoError(t, err)
	assert.Equal(t, *run, got)

	ok, err := db.HasRun("run-a")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = db.LoadRun("run-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// saving again replaces findings instead of duplicating them
	run.Findings = run.Findings[:1]
	run.Counts = model.CountFindings(run.Findings)
	require.NoError(t, db.SaveRun(run))
	fs, err := db.ListFindings("run-a", model.SeverityInfo)
	require.NoError(t, err)
	assert.Len(t, fs, 1)
}

func TestLatestAndListRuns(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LoadLatestRun()
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := db.ListRuns(10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveRun(sampleRun("run-old", base)))
	require.NoError(t, db.SaveRun(sampleRun("run-new", base.Add(time.Hour))))

	latest, err := db.LoadLatestRun()
	require.NoError(t, err)
	assert.Equal(t, "run-new", latest.ID)

	rows, err = db.ListRuns(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "run-new", rows[0].ID)
	assert.Equal(t, 4, rows[0].Findings)
	assert.Equal(t, model.Counts{Error: 1, Warning: 2, Info: 1}, rows[0].Counts)

	rows, err = db.ListRuns(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "run-old", rows[0].ID)
}

func TestListFindings_MinSeverity(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveRun(sampleRun("run-a", time.Now())))

	all, err := db.ListFindings("run-a", model.SeverityInfo)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "UNIQUE_IDS", all[0].RuleID)
	assert.Equal(t, []string{"TC-002", "TC-003"}, all[2].RelatedIDs)
	assert.Equal(t, []string{}, all[1].RelatedIDs)

	warn, err := db.ListFindings("run-a", model.SeverityWarning)
	require.NoError(t, err)
	assert.Len(t, warn, 3)

	errs, err := db.ListFindings("run-a", model.SeverityError)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, 9, errs[0].Line)
}

func TestWaivers(t *testing.T) {
	db := openTestDB(t)

	active, err := db.CreateWaiver("MISSING_TEST_LINKS", "REQ-001", "", "accepted for beta", "alice", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	expired, err := db.CreateWaiver("ORPHAN_TESTS", "", "legacy", "old", "alice", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	revoked, err := db.CreateWaiver("SEQUENCE_GAPS", "", "", "numbering reset", "bob", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, db.RevokeWaiver(revoked, "bob"))
	assert.ErrorIs(t, db.RevokeWaiver(revoked, "bob"), ErrNotFound)

	all, err := db.ListWaivers(false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, revoked, all[0].ID)
	assert.NotNil(t, all[0].RevokedAt)
	assert.Equal(t, "legacy", all[1].PatternSub)
	assert.Equal(t, expired, all[1].ID)

	only, err := db.ListWaivers(true)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, active, only[0].ID)
	assert.Equal(t, "REQ-001", only[0].EntityID)
	assert.True(t, only[0].ActiveAt(time.Now()))
}

func TestUsersAndSessions(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateUser("alice", "hash", "Admin")
	require.NoError(t, err)
	_, err = db.CreateUser("alice", "hash", RoleViewer)
	assert.Error(t, err)
	_, err = db.CreateUser("bob", "hash", "owner")
	assert.Error(t, err)

	u, hash, err := db.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, "hash", hash)

	_, _, err = db.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.CreateSession(id, "tok-live", time.Now().Add(time.Hour)))
	require.NoError(t, db.CreateSession(id, "tok-expired", time.Now().Add(-time.Hour)))

	su, err := db.GetSession("tok-live")
	require.NoError(t, err)
	assert.Equal(t, "alice", su.Username)

	_, err = db.GetSession("tok-expired")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.DeleteSession("tok-live"))
	_, err = db.GetSession("tok-live")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, db.LogAudit("alice", "login", "", map[string]any{"ip": "127.0.0.1"}))
}
