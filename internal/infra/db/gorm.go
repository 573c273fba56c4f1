package db

import (
	"errors"
	"fmt"

	"catalog/internal/config"
	"catalog/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
		cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate はテーブルを作る
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Product{},
	)
}

// EnsureIndexes は名前の一意インデックスを張る。
// 大文字小文字を無視し、論理削除済みの行は対象外。
// 同名同時作成のレースはアプリ側の事前チェックでは防げないのでDBで止める。
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name)) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_lower ON products (LOWER(name)) WHERE deleted_at IS NULL`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed は開発用の初期データを入れる。何度呼んでも増えない。
func Seed(db *gorm.DB) error {
	categories := []model.Category{
		{Name: "Electronics", Description: strPtr("Electronic devices and gadgets")},
		{Name: "Books", Description: strPtr("Books and educational materials")},
		{Name: "Clothing", Description: strPtr("Fashion and apparel")},
	}
	for i := range categories {
		if err := firstOrCreateByName(db, &categories[i], categories[i].Name); err != nil {
			return err
		}
	}

	products := []model.Product{
		{Name: "Laptop", Description: strPtr("High-performance laptop"), Price: 999.99, Stock: 50, CategoryID: categories[0].ID},
		{Name: "Smartphone", Description: strPtr("Latest smartphone model"), Price: 699.99, Stock: 100, CategoryID: categories[0].ID},
		{Name: "Programming Book", Description: strPtr("Learn programming basics"), Price: 29.99, Stock: 200, CategoryID: categories[1].ID},
	}
	for i := range products {
		if err := firstOrCreateByName(db, &products[i], products[i].Name); err != nil {
			return err
		}
	}
	return nil
}

func firstOrCreateByName[T any](db *gorm.DB, e *T, name string) error {
	err := db.Where("name = ?", name).First(e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(e).Error
	}
	return err
}

func strPtr(s string) *string {
	return &s
}
