// Package keystore provides StateStore implementations for the credential
// pool: a JSON file for single-host deployments and Redis for deployments
// where several processes share one quota budget.
package keystore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// FileStore persists the pool state as a single JSON document on disk.
// Every Save rewrites the whole file; there is no locking across processes,
// matching the documented last-writer-wins contract.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements credential.StateStore.
func (s *FileStore) Load(_ context.Context) (*credential.PoolState, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodePoolStateLoad, "read pool file")
	}
	state := &credential.PoolState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodePoolStateInvalid, "decode pool file")
	}
	return state, true, nil
}

// Save implements credential.StateStore.  The write goes through a temp file
// and rename so a crashed writer cannot leave a torn document behind.
func (s *FileStore) Save(_ context.Context, state *credential.PoolState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode pool state")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodePoolStateSave, "create pool state dir")
	}
	tmp, err := os.CreateTemp(dir, ".pool-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodePoolStateSave, "create temp pool file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodePoolStateSave, "write pool file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodePoolStateSave, "close pool file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodePoolStateSave, "replace pool file")
	}
	return nil
}

// Name identifies the store in health checks.
func (s *FileStore) Name() string { return "keystore-file" }

// Check implements the health-check probe: the state directory must exist
// or be creatable.
func (s *FileStore) Check(_ context.Context) error {
	return os.MkdirAll(filepath.Dir(s.path), 0o755)
}
