// Package identity is the account registry: registration, credential
// checks, account rename and deletion. It owns the mapping from account
// name to credential; the content tree itself belongs to the store.
package identity

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/YannKr/studyportal/internal/db"
	"github.com/YannKr/studyportal/internal/model"
	"github.com/YannKr/studyportal/internal/store"
)

var (
	ErrAlreadyExists = errors.New("account already exists")
	ErrNotFound      = errors.New("account not found")
	ErrInvalidInput  = errors.New("invalid account input")

	// ErrInvalidCredentials is the single failure for both an unknown name
	// and a wrong credential, so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const journalFile = "rename-journal.json"

type Service struct {
	DB      *sql.DB
	Store   *store.Store
	DataDir string
}

func New(database *sql.DB, st *store.Store, dataDir string) *Service {
	return &Service{DB: database, Store: st, DataDir: dataDir}
}

// Register creates the account and durably persists its empty default tree
// before returning.
func (s *Service) Register(name, credential string) error {
	if name == "" {
		return fmt.Errorf("empty account name: %w", ErrInvalidInput)
	}
	exists, err := db.AccountExists(s.DB, name)
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if exists {
		return fmt.Errorf("account %q: %w", name, ErrAlreadyExists)
	}
	if err := db.CreateAccount(s.DB, &model.Account{Name: name, Credential: credential}); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if err := s.Store.Init(name); err != nil {
		return fmt.Errorf("init content tree: %w", err)
	}
	return nil
}

// Authenticate compares the stored credential verbatim. Both unknown names
// and mismatches come back as the one generic failure.
func (s *Service) Authenticate(name, credential string) (*model.Account, error) {
	account, err := db.GetAccount(s.DB, name)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil || account.Credential != credential {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

type renameJournal struct {
	Old string `json:"old"`
	New string `json:"new"`
}

func (s *Service) journalPath() string {
	return filepath.Join(s.DataDir, journalFile)
}

// Rename moves the account to a new name and credential. The registry
// update and the storage relocation are bound together by a write-ahead
// journal so a crash between the two never leaves the system with two
// accounts pointing at one storage unit; Recover replays the journal.
func (s *Service) Rename(oldName, newName, newCredential string) error {
	if newName == "" {
		return fmt.Errorf("empty new name: %w", ErrInvalidInput)
	}
	account, err := db.GetAccount(s.DB, oldName)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %q: %w", oldName, ErrNotFound)
	}
	if oldName != newName {
		exists, err := db.AccountExists(s.DB, newName)
		if err != nil {
			return fmt.Errorf("check new name: %w", err)
		}
		if exists {
			return fmt.Errorf("account %q: %w", newName, ErrAlreadyExists)
		}
	}

	journal, err := json.Marshal(renameJournal{Old: oldName, New: newName})
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := os.WriteFile(s.journalPath(), journal, 0644); err != nil {
		return fmt.Errorf("write rename journal: %w", err)
	}

	if err := db.RenameAccount(s.DB, oldName, newName, newCredential); err != nil {
		os.Remove(s.journalPath())
		return fmt.Errorf("rename registry entry: %w", err)
	}
	if err := s.Store.RelocateData(oldName, newName); err != nil {
		// journal stays on disk; Recover finishes the move on next start
		return fmt.Errorf("relocate storage: %w", err)
	}
	if err := os.Remove(s.journalPath()); err != nil {
		slog.Warn("remove rename journal", "error", err)
	}
	return nil
}

// Recover completes a rename the process died in the middle of. Safe to
// call on every startup; a missing journal is the common case.
func (s *Service) Recover() error {
	data, err := os.ReadFile(s.journalPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read rename journal: %w", err)
	}
	var j renameJournal
	if err := json.Unmarshal(data, &j); err != nil {
		slog.Warn("discarding unreadable rename journal", "error", err)
		return os.Remove(s.journalPath())
	}

	// Roll the registry forward if the crash hit before the update landed.
	oldAcct, err := db.GetAccount(s.DB, j.Old)
	if err != nil {
		return fmt.Errorf("recover: load account: %w", err)
	}
	if oldAcct != nil {
		if err := db.RenameAccount(s.DB, j.Old, j.New, oldAcct.Credential); err != nil {
			return fmt.Errorf("recover: rename registry entry: %w", err)
		}
	}
	if err := s.Store.RelocateData(j.Old, j.New); err != nil {
		return fmt.Errorf("recover: relocate storage: %w", err)
	}
	slog.Info("recovered interrupted account rename", "old", j.Old, "new", j.New)
	return os.Remove(s.journalPath())
}

// Delete removes the registry entry, its sessions, and the whole storage
// subtree. Irreversible.
func (s *Service) Delete(name string) error {
	account, err := db.GetAccount(s.DB, name)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %q: %w", name, ErrNotFound)
	}
	if err := db.DeleteAccount(s.DB, name); err != nil {
		return fmt.Errorf("delete registry entry: %w", err)
	}
	if err := s.Store.RemoveAccountData(name); err != nil {
		return err
	}
	return nil
}
