// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/jeranaias/certiprofile-tui/internal/util"
)

// =============================================================================
// STORAGE INTERFACE
// =============================================================================

// Storage is the durable record keeper behind the session store: one record
// per identity, keyed by email, holding the full serialized session list.
// Records are scoped strictly per identity and never cross-read.
type Storage interface {
	// Read returns the record for the identity, with ok=false when no
	// record exists yet.
	Read(email string) (data []byte, ok bool, err error)

	// Write overwrites the identity's record.
	Write(email string, data []byte) error

	// Delete removes the identity's record. Deleting a missing record is
	// not an error.
	Delete(email string) error

	// Close releases any underlying resources.
	Close() error
}

// =============================================================================
// FILE STORAGE
// =============================================================================

// FileStorage keeps one JSON file per identity under a base directory.
// Writes go through an atomic rename with fsync, so a crash mid-write
// leaves the previous snapshot intact.
type FileStorage struct {
	// BaseDir is the directory holding the per-identity records.
	// Default: ~/.certiprofile/sessions/
	BaseDir string
}

// NewFileStorage creates file storage under the user's home directory.
func NewFileStorage() (*FileStorage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStorageWithDir(filepath.Join(homeDir, ".certiprofile", "sessions"))
}

// NewFileStorageWithDir creates file storage with a custom directory.
func NewFileStorageWithDir(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStorage{BaseDir: baseDir}, nil
}

// Read implements Storage.
func (s *FileStorage) Read(email string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.recordPath(email))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Write implements Storage.
func (s *FileStorage) Write(email string, data []byte) error {
	return util.AtomicWriteFile(s.recordPath(email), data, 0600)
}

// Delete implements Storage.
func (s *FileStorage) Delete(email string) error {
	err := os.Remove(s.recordPath(email))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Storage. File storage holds no open handles.
func (s *FileStorage) Close() error {
	return nil
}

// recordPath maps an email to its record file. The name is a hash prefix
// rather than the raw email, which keeps addresses out of directory
// listings and sidesteps filesystem-hostile characters.
func (s *FileStorage) recordPath(email string) string {
	sum := sha256.Sum256([]byte(email))
	return filepath.Join(s.BaseDir, hex.EncodeToString(sum[:8])+".json")
}
