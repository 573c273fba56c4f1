package repository

import (
	"context"

	"catalog/internal/domain/model"
)

// 商品の永続化（保存・取得）だけを約束。読み取りは論理削除済みを返さない。
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (model.Product, error)
	GetAll(ctx context.Context) ([]model.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)

	Add(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error

	// カテゴリ内の商品。カテゴリの存在確認はしない（無ければ空）。
	GetByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)

	// カテゴリを添えて取得
	GetWithCategory(ctx context.Context, id int64) (model.Product, error)
	GetAllWithCategory(ctx context.Context) ([]model.Product, error)

	// 名前・説明の部分一致検索。説明がNULLの行は対象外。
	Search(ctx context.Context, term string) ([]model.Product, error)

	IsNameUnique(ctx context.Context, name string, excludeID *int64) (bool, error)
}
