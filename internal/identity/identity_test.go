package identity

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studyportal "github.com/YannKr/studyportal"
	"github.com/YannKr/studyportal/internal/db"
	"github.com/YannKr/studyportal/internal/store"
)

func newTestService(t *testing.T) (*Service, *sql.DB, string) {
	t.Helper()
	dataDir := t.TempDir()
	database, err := db.Open(dataDir)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database, studyportal.MigrationFS))
	st := store.New(dataDir)
	return New(database, st, dataDir), database, dataDir
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, dataDir := newTestService(t)

	require.NoError(t, svc.Register("alice", "s3cret"))

	// the empty default tree is on disk before Register returns
	_, err := os.Stat(filepath.Join(dataDir, "users", "alice", "snapshot.json"))
	require.NoError(t, err)

	acct, err := svc.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", acct.Name)
}

func TestAuthenticateFailures(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Register("alice", "s3cret"))

	// wrong credential and unknown name are indistinguishable
	_, err := svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Register("alice", "one"))
	err := svc.Register("alice", "two")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// the original credential survives the rejected attempt
	acct, err := svc.Authenticate("alice", "one")
	require.NoError(t, err)
	assert.Equal(t, "alice", acct.Name)
}

// An empty name is an input error, not an authentication failure.
func TestRegisterEmptyName(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Register("", "pw"), ErrInvalidInput)
}

func TestRenameEmptyNewName(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Register("alice", "pw"))
	assert.ErrorIs(t, svc.Rename("alice", "", "pw"), ErrInvalidInput)
}

func TestRename(t *testing.T) {
	svc, _, dataDir := newTestService(t)
	require.NoError(t, svc.Register("alice", "old-pw"))

	require.NoError(t, svc.Rename("alice", "alicia", "new-pw"))

	_, err := svc.Authenticate("alice", "old-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	acct, err := svc.Authenticate("alicia", "new-pw")
	require.NoError(t, err)
	assert.Equal(t, "alicia", acct.Name)

	// storage moved with the account
	_, err = os.Stat(filepath.Join(dataDir, "users", "alicia", "snapshot.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dataDir, "users", "alice"))
	assert.True(t, os.IsNotExist(err))

	// journal is gone after a clean rename
	_, err = os.Stat(filepath.Join(dataDir, "rename-journal.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenameToTakenName(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Register("alice", "a"))
	require.NoError(t, svc.Register("bob", "b"))

	err := svc.Rename("alice", "bob", "x")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRenameUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Rename("ghost", "spirit", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

// A journal left behind by a crash after the registry update but before
// the storage move is replayed on startup.
func TestRecoverFinishesInterruptedRename(t *testing.T) {
	svc, database, dataDir := newTestService(t)
	require.NoError(t, svc.Register("alice", "pw"))

	// simulate the crash point: registry renamed, storage not yet moved
	require.NoError(t, db.RenameAccount(database, "alice", "alicia", "pw"))
	journal, err := json.Marshal(map[string]string{"old": "alice", "new": "alicia"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "rename-journal.json"), journal, 0644))

	require.NoError(t, svc.Recover())

	_, err = os.Stat(filepath.Join(dataDir, "users", "alicia", "snapshot.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dataDir, "rename-journal.json"))
	assert.True(t, os.IsNotExist(err))
}

// A crash before the registry update leaves the old account row; Recover
// rolls both halves forward.
func TestRecoverRollsRegistryForward(t *testing.T) {
	svc, _, dataDir := newTestService(t)
	require.NoError(t, svc.Register("alice", "pw"))

	journal, err := json.Marshal(map[string]string{"old": "alice", "new": "alicia"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "rename-journal.json"), journal, 0644))

	require.NoError(t, svc.Recover())

	acct, err := svc.Authenticate("alicia", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alicia", acct.Name)
	_, err = os.Stat(filepath.Join(dataDir, "users", "alicia", "snapshot.json"))
	require.NoError(t, err)
}

func TestRecoverNoJournal(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.NoError(t, svc.Recover())
}

func TestRecoverGarbageJournal(t *testing.T) {
	svc, _, dataDir := newTestService(t)
	path := filepath.Join(dataDir, "rename-journal.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

	require.NoError(t, svc.Recover())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDelete(t *testing.T) {
	svc, database, dataDir := newTestService(t)
	require.NoError(t, svc.Register("alice", "pw"))

	require.NoError(t, svc.Delete("alice"))

	_, err := svc.Authenticate("alice", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = os.Stat(filepath.Join(dataDir, "users", "alice"))
	assert.True(t, os.IsNotExist(err))

	acct, err := db.GetAccount(database, "alice")
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestDeleteUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Delete("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
