package db

import (
	"fmt"
	"satori/common/config"
	"satori/common/db/models"
	"satori/lib/logger"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func NewDB(config config.DBConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var db *gorm.DB
	var err error
	if config.InMemory {
		// every in memory db gets unique name, so tests do not share data
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	} else {
		db, err = gorm.Open(postgres.Open(config.Dsn), gormConfig)
	}
	if err != nil {
		return nil, logger.Error("Can't open database with dsn=\"%v\" because of %v:", config.Dsn, err)
	}

	if config.InMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, logger.Error("Can't get sql db: %v", err)
		}
		// sqlite locks the whole database on writes, single connection serializes access
		sqlDB.SetMaxOpenConns(1)
	}

	if err = migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	toMigrate := []any{
		&models.Test{},
		&models.TestSuite{},
		&models.TestMapping{},
		&models.Submit{},
		&models.TestResult{},
		&models.TestSuiteResult{},
	}
	for _, model := range toMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return logger.Error("Can't migrate %T: %v", model, err)
		}
	}
	return nil
}
