// Package gormstore implements the docstore driver on a relational database
// through gorm, keeping each document's data in a JSON column.
package gormstore

import (
	"context"
	"maps"
	"time"

	"booking-app/internal/infra/docstore"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Seq        uint64            `gorm:"primaryKey;autoIncrement"`
	Collection string            `gorm:"type:varchar(128);not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string            `gorm:"column:doc_id;type:varchar(64);not null;uniqueIndex:idx_documents_collection_doc"`
	Data       datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string { return "documents" }

// Migrate creates or updates the documents table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Document{})
}

type Store struct {
	db  *gorm.DB
	hub *docstore.Hub
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, hub: docstore.NewHub()}
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	row := Document{
		Collection: collection,
		DocID:      uuid.NewString(),
		Data:       datatypes.JSONMap(cloneData(data)),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", errors.Wrapf(err, "insert into %s", collection)
	}
	s.hub.Notify(collection)
	return row.DocID, nil
}

func (s *Store) find(tx *gorm.DB, collection, id string) (Document, error) {
	var row Document
	err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, errors.Wrapf(docstore.ErrNotFound, "%s/%s", collection, id)
	}
	if err != nil {
		return row, errors.Wrapf(err, "load %s/%s", collection, id)
	}
	return row, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	row, err := s.find(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: row.DocID, Data: cloneData(row.Data)}, nil
}

func (s *Store) Replace(ctx context.Context, collection, id string, data map[string]any, preserve ...string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, collection, id)
		if err != nil {
			return err
		}
		merged := docstore.MergePreserved(row.Data, data, preserve)
		return tx.Model(&Document{}).
			Where("seq = ?", row.Seq).
			Update("data", datatypes.JSONMap(merged)).Error
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		return errors.Wrapf(err, "replace %s/%s", collection, id)
	}
	s.hub.Notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&Document{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete %s/%s", collection, id)
	}
	if res.RowsAffected > 0 {
		s.hub.Notify(collection)
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	var rows []Document
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "list %s", collection)
	}
	out := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, docstore.Document{ID: r.DocID, Data: cloneData(r.Data)})
	}
	return out, nil
}

// Watch only sees writes made through this Store.
func (s *Store) Watch(collection string, notify func()) func() {
	return s.hub.Watch(collection, notify)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return maps.Clone(data)
}
