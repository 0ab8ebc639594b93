// Package prefs persists session preferences between runs.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// FileName is the name of the preferences database in the data directory.
	FileName = "prefs.db"

	// NoVolume is the volume of preferences without a stored volume.
	NoVolume = -1

	sessionBucket = "session"
	volumeKey     = "volume"
	playlistKey   = "playlist"

	openTimeout = time.Second
)

// Preferences is what is remembered of the session between runs.
type Preferences struct {
	Playlist string
	Volume   int
}

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the preferences database at path.
func Open(path string) (*Store, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("could not open preferences database: %w", err)
	}

	err = db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Load returns stored preferences. Volume is NoVolume when none was stored.
func (s *Store) Load() (Preferences, error) {
	prefs := Preferences{Volume: NoVolume}

	err := s.db.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(sessionBucket))

		prefs.Playlist = string(b.Get([]byte(playlistKey)))

		volume := b.Get([]byte(volumeKey))
		if volume == nil {
			return nil
		}

		parsed, err := strconv.Atoi(string(volume))
		if err != nil {
			return fmt.Errorf("stored volume is corrupted: %w", err)
		}

		prefs.Volume = parsed
		return nil
	})

	return prefs, err
}

// Save stores prefs. Empty playlist removes the stored one, NoVolume keeps the stored volume.
func (s *Store) Save(prefs Preferences) error {
	return s.db.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(sessionBucket))

		var err error
		if prefs.Playlist == "" {
			err = b.Delete([]byte(playlistKey))
		} else {
			err = b.Put([]byte(playlistKey), []byte(prefs.Playlist))
		}
		if err != nil {
			return err
		}

		if prefs.Volume == NoVolume {
			return nil
		}

		return b.Put([]byte(volumeKey), []byte(strconv.Itoa(prefs.Volume)))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
