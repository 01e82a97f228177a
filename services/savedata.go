package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"sangobot/core/log"
	"sangobot/models"

	"github.com/gofrs/flock"
)

// NicknameStore is the durable authorId -> nickname mapping. Readers may run
// concurrently; every write persists to disk before the call returns.
type NicknameStore struct {
	path      string
	mutex     sync.RWMutex
	nicknames map[string]string
	fileLock  *flock.Flock
}

type savedata struct {
	Nicknames map[string]string `json:"nicknames"`
}

// LoadNicknameStore reads the savedata file at path. A missing or corrupt
// file starts an empty store; that is not fatal.
func LoadNicknameStore(path string) *NicknameStore {
	store := &NicknameStore{
		path:      path,
		nicknames: make(map[string]string),
		fileLock:  flock.New(path + ".lock"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("⚠️ Savedata file is not readable, creating a new one: %v", err)
		return store
	}
	var sd savedata
	if err := json.Unmarshal(data, &sd); err != nil {
		log.Warn("⚠️ Savedata file is corrupt, starting over with empty nicknames: %v", err)
		return store
	}
	if sd.Nicknames != nil {
		store.nicknames = sd.Nicknames
	}
	log.Info("💾 Loaded %d nicknames from %s", len(store.nicknames), path)
	return store
}

func (s *NicknameStore) Get(userID string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	nickname, ok := s.nicknames[userID]
	return nickname, ok
}

// DisplayName resolves what the bot calls a user: their stored nickname if
// one exists, otherwise their profile name or handle.
func (s *NicknameStore) DisplayName(user *models.User) string {
	if nickname, ok := s.Get(user.ID); ok {
		return nickname
	}
	return user.BaseName()
}

// Set stores a nickname and persists immediately.
func (s *NicknameStore) Set(userID, nickname string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.nicknames[userID] = nickname
	return s.save()
}

// Remove deletes a stored nickname, reporting whether one existed.
func (s *NicknameStore) Remove(userID string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, existed := s.nicknames[userID]
	delete(s.nicknames, userID)
	if err := s.save(); err != nil {
		return existed, err
	}
	return existed, nil
}

// save writes the whole mapping atomically: temp file, then rename over the
// old one. The flock keeps a second bot process from interleaving writes.
// Caller holds the write lock.
func (s *NicknameStore) save() error {
	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock savedata file: %w", err)
	}
	defer s.fileLock.Unlock()

	data, err := json.MarshalIndent(savedata{Nicknames: s.nicknames}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal savedata: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write savedata: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace savedata: %w", err)
	}
	return nil
}
