// Package store owns the per-account content tree: the durable snapshot
// file, the uploaded document files, and every mutation of the in-memory
// tree. Each mutation is followed by a save before it returns, so durable
// state never trails the last acknowledged operation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/YannKr/studyportal/internal/model"
)

const snapshotFile = "snapshot.json"

// Store manages one content tree per account under dataDir/users/<name>/.
// Access to each account's tree is serialized by a per-account lock.
type Store struct {
	dataDir string

	mu       sync.Mutex
	accounts map[string]*accountState
}

type accountState struct {
	mu   sync.Mutex
	tree *model.ContentTree
}

func New(dataDir string) *Store {
	return &Store{
		dataDir:  dataDir,
		accounts: make(map[string]*accountState),
	}
}

func (s *Store) UsersDir() string {
	return filepath.Join(s.dataDir, "users")
}

func (s *Store) AccountDir(account string) string {
	return filepath.Join(s.UsersDir(), account)
}

func (s *Store) snapshotPath(account string) string {
	return filepath.Join(s.AccountDir(account), snapshotFile)
}

func (s *Store) docsDir(account, subject string) string {
	return filepath.Join(s.AccountDir(account), "docs", subject)
}

func (s *Store) state(account string) *accountState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.accounts[account]
	if !ok {
		st = &accountState{}
		s.accounts[account] = st
	}
	return st
}

// Load reads the snapshot from disk without touching the cache.
// A missing snapshot yields ErrNoSnapshot, an undecodable one
// ErrCorruptSnapshot; the substitute-a-default policy lives in Tree, not
// here, so callers can make their own call.
func (s *Store) Load(account string) (*model.ContentTree, error) {
	data, err := os.ReadFile(s.snapshotPath(account))
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	tree := &model.ContentTree{}
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if tree.Subjects == nil {
		tree.Subjects = make(map[string]*model.Subject)
	}
	return tree, nil
}

// Init persists the default empty tree for a fresh account.
func (s *Store) Init(account string) error {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.tree = model.NewContentTree()
	return s.save(account, st.tree)
}

// Read runs fn with the account's tree under the account lock. The tree
// must not be retained past fn; analytics and handlers borrow it this way.
func (s *Store) Read(account string, fn func(*model.ContentTree)) {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(s.treeLocked(account, st))
}

// Mutate runs fn with the account's tree under the account lock and, when
// fn succeeds, saves the snapshot before returning. A failed save is
// surfaced: silently losing a write is the one failure mode we refuse to
// swallow.
func (s *Store) Mutate(account string, fn func(*model.ContentTree) error) error {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()
	tree := s.treeLocked(account, st)
	if err := fn(tree); err != nil {
		return err
	}
	return s.save(account, tree)
}

// treeLocked returns the cached tree, loading it on first use. Absence and
// corruption both degrade to a default empty tree so a bad snapshot never
// locks the account out of the tool; corruption is logged on the way.
func (s *Store) treeLocked(account string, st *accountState) *model.ContentTree {
	if st.tree != nil {
		return st.tree
	}
	tree, err := s.Load(account)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSnapshot):
		tree = model.NewContentTree()
	default:
		slog.Warn("snapshot unreadable, starting empty", "account", account, "error", err)
		tree = model.NewContentTree()
	}
	st.tree = tree
	return tree
}

// save atomically replaces the snapshot: write to a temp file in the same
// directory, fsync, rename. A reader observes either the old or the new
// complete file, never a partial write.
func (s *Store) save(account string, tree *model.ContentTree) error {
	dir := s.AccountDir(account)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create account dir: %w", err)
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(dir, snapshotFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.snapshotPath(account)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Flush writes every cached tree back to disk. Redundant with the
// per-mutation saves; it exists as a safety net on a timer.
func (s *Store) Flush() {
	s.mu.Lock()
	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		names = append(names, name)
	}
	s.mu.Unlock()

	for _, name := range names {
		st := s.state(name)
		st.mu.Lock()
		if st.tree != nil {
			if err := s.save(name, st.tree); err != nil {
				slog.Error("autosave flush", "account", name, "error", err)
			}
		}
		st.mu.Unlock()
	}
}

// Evict drops the cached tree so the next access reloads from disk.
func (s *Store) Evict(account string) {
	s.mu.Lock()
	delete(s.accounts, account)
	s.mu.Unlock()
}

// RemoveAccountData deletes the account's whole storage subtree. Irreversible.
func (s *Store) RemoveAccountData(account string) error {
	s.Evict(account)
	if err := os.RemoveAll(s.AccountDir(account)); err != nil {
		return fmt.Errorf("remove account data: %w", err)
	}
	return nil
}

// RelocateData moves the account's storage unit to a new name. The move is
// retry-safe: a repeat call after a crash that already moved the directory
// is a no-op.
func (s *Store) RelocateData(oldAccount, newAccount string) error {
	s.Evict(oldAccount)
	s.Evict(newAccount)
	oldDir := s.AccountDir(oldAccount)
	newDir := s.AccountDir(newAccount)
	if _, err := os.Stat(oldDir); os.IsNotExist(err) {
		if _, err := os.Stat(newDir); err == nil {
			return nil // already moved
		}
		return nil // nothing to move; a fresh tree materialises on demand
	}
	if err := os.MkdirAll(s.UsersDir(), 0755); err != nil {
		return fmt.Errorf("create users dir: %w", err)
	}
	if err := os.Rename(oldDir, newDir); err != nil {
		return fmt.Errorf("relocate account data: %w", err)
	}
	return nil
}
