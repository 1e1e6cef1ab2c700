// Package sqlite stores records in a local SQLite file through gorm. It is the
// default driver: a single-file database next to the binary, the closest
// equivalent of the browser-local store the PDV was built around.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/MrJamesThe3rd/pdv/internal/record"
)

type recordRow struct {
	Collection string `gorm:"primaryKey;size:32"`
	Key        string `gorm:"primaryKey;column:record_key;size:128"`
	Data       string `gorm:"type:text;not null"`
}

func (recordRow) TableName() string { return "records" }

type sequenceRow struct {
	Collection string `gorm:"primaryKey;size:32"`
	LastID     int64  `gorm:"not null;default:0"`
}

func (sequenceRow) TableName() string { return "record_sequences" }

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the SQLite database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	return New(db), nil
}

func (s *Store) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&recordRow{}, &sequenceRow{}); err != nil {
		return fmt.Errorf("migrating sqlite schema: %w", err)
	}

	return nil
}

func (s *Store) GetAll(ctx context.Context, c record.Collection) ([]record.Record, error) {
	if err := record.Check(c); err != nil {
		return nil, err
	}

	var rows []recordRow
	if err := s.db.WithContext(ctx).Where("collection = ?", string(c)).Order("record_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", c, err)
	}

	out := make([]record.Record, len(rows))
	for i, r := range rows {
		out[i] = record.Record{Key: r.Key, Data: json.RawMessage(r.Data)}
	}

	return out, nil
}

func (s *Store) Get(ctx context.Context, c record.Collection, key string) (*record.Record, error) {
	if err := record.Check(c); err != nil {
		return nil, err
	}

	var row recordRow

	err := s.db.WithContext(ctx).
		Where("collection = ? AND record_key = ?", string(c), key).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting %s/%s: %w", c, key, err)
	}

	return &record.Record{Key: row.Key, Data: json.RawMessage(row.Data)}, nil
}

func (s *Store) Add(ctx context.Context, c record.Collection, data json.RawMessage) (string, error) {
	if err := record.Check(c); err != nil {
		return "", err
	}

	var key string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := sequenceRow{Collection: string(c)}
		if err := tx.FirstOrCreate(&seq, sequenceRow{Collection: string(c)}).Error; err != nil {
			return err
		}

		seq.LastID++
		if err := tx.Save(&seq).Error; err != nil {
			return err
		}

		key = strconv.FormatInt(seq.LastID, 10)

		return tx.Create(&recordRow{Collection: string(c), Key: key, Data: string(data)}).Error
	})
	if err != nil {
		return "", fmt.Errorf("adding record to %s: %w", c, err)
	}

	return key, nil
}

func (s *Store) Put(ctx context.Context, c record.Collection, key string, data json.RawMessage) error {
	if err := record.Check(c); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := recordRow{Collection: string(c), Key: key, Data: string(data)}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}

		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil
		}

		seq := sequenceRow{Collection: string(c)}
		if err := tx.FirstOrCreate(&seq, sequenceRow{Collection: string(c)}).Error; err != nil {
			return err
		}

		if n <= seq.LastID {
			return nil
		}

		seq.LastID = n

		return tx.Save(&seq).Error
	})
	if err != nil {
		return fmt.Errorf("putting %s/%s: %w", c, key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, c record.Collection, key string) error {
	if err := record.Check(c); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Where("collection = ? AND record_key = ?", string(c), key).
		Delete(&recordRow{}).Error
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c, key, err)
	}

	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
