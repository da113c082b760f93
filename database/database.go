package database

import (
	"context"
	"time"

	"booking-app/config"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/infra/docstore/gormstore"
	"booking-app/internal/infra/docstore/memory"
	"booking-app/internal/infra/docstore/mongostore"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to postgres and migrates the document table.
func InitDB() {
	db, err := gorm.Open(postgres.Open(config.DB_URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	DB = db

	if err := gormstore.Migrate(DB); err != nil {
		log.WithError(err).Fatal("AutoMigrate error")
	}

	log.Info("Connected and migrated successfully")
}

// OpenDocStore opens the driver selected by DOCSTORE_DRIVER.
func OpenDocStore(ctx context.Context) (docstore.Driver, error) {
	switch config.DOCSTORE_DRIVER {
	case config.DriverPostgres:
		InitDB()
		return gormstore.New(DB), nil
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := mongostore.Connect(ctx, config.MONGO_URI, config.MONGO_DATABASE,
			mongostore.WithChangeStreams(config.MONGO_CHANGE_STREAMS))
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		log.Warn("Using the in-memory document store, data is lost on restart")
		return memory.New(), nil
	}
	return nil, errors.Errorf("unknown document store driver %q", config.DOCSTORE_DRIVER)
}
