package configstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const (
	configBucketName = "config"
	ratesBucketName  = "rates"

	keySheetID       = "sheet_id"
	keyDriveFolderID = "drive_folder_id"
)

// Store persists user-local settings: destination overrides and manual
// exchange rates. The analog of the browser app's localStorage.
type Store interface {
	// SheetID returns the user-entered spreadsheet override, "" if unset.
	SheetID() (string, error)
	// SetSheetID saves the spreadsheet override; empty clears it.
	SetSheetID(id string) error

	// DriveFolderID returns the user-entered folder override, "" if unset.
	DriveFolderID() (string, error)
	// SetDriveFolderID saves the folder override; empty clears it.
	SetDriveFolderID(id string) error

	// ManualRates returns all manual exchange-rate overrides keyed by
	// uppercase currency code.
	ManualRates() (map[string]float64, error)
	// SetManualRate saves a manual rate for a currency code.
	SetManualRate(code string, rate float64) error
	// DeleteManualRate clears the manual rate for a currency code.
	DeleteManualRate(code string) error

	// Close closes the underlying database.
	Close() error
}

// BoltStore implements Store using BoltDB.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the settings database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(configBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(ratesBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) getConfig(key string) (string, error) {
	var out string
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(configBucketName)).Get([]byte(key))
		out = string(v)
		return nil
	})
	return out, err
}

func (s *BoltStore) setConfig(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(configBucketName))
		if value == "" {
			return b.Delete([]byte(key))
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) SheetID() (string, error) {
	return s.getConfig(keySheetID)
}

func (s *BoltStore) SetSheetID(id string) error {
	return s.setConfig(keySheetID, id)
}

func (s *BoltStore) DriveFolderID() (string, error) {
	return s.getConfig(keyDriveFolderID)
}

func (s *BoltStore) SetDriveFolderID(id string) error {
	return s.setConfig(keyDriveFolderID, id)
}

func (s *BoltStore) ManualRates() (map[string]float64, error) {
	out := map[string]float64{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(ratesBucketName)).ForEach(func(k, v []byte) error {
			rate, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return fmt.Errorf("corrupt rate for %s: %w", k, err)
			}
			out[string(k)] = rate
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) SetManualRate(code string, rate float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("empty currency code")
	}
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %v", rate)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(ratesBucketName)).Put(
			[]byte(code), []byte(strconv.FormatFloat(rate, 'f', -1, 64)))
	})
}

func (s *BoltStore) DeleteManualRate(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(ratesBucketName)).Delete([]byte(code))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
