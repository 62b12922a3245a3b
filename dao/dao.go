package dao

import (
	"fmt"

	"meditation-assistant-backend/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store 数据库访问句柄，显式注入到各个handler，便于测试替换
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open 连接Postgres并执行表结构迁移
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return New(db), nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Message{},
		&model.Material{},
		&model.Category{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %v", err)
	}
	return nil
}
