package repository

import (
	"context"

	"catalog/internal/domain/model"
)

// カテゴリの永続化（保存・取得）だけを約束。読み取りは論理削除済みを返さない。
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (model.Category, error)
	GetAll(ctx context.Context) ([]model.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)

	// Addは即時INSERT（IDはここで採番される）。確定はSaveChanges。
	Add(ctx context.Context, c *model.Category) error
	// Updateは全カラム更新をステージする。反映はSaveChanges。
	Update(ctx context.Context, c *model.Category) error

	// 商品込みで取得。商品側も論理削除済みは含めない。
	GetWithProducts(ctx context.Context, id int64) (model.Category, error)
	GetAllWithProducts(ctx context.Context) ([]model.Category, error)

	// 大文字小文字を無視した名前の一意チェック。excludeIDで自分自身を除外（リネーム用）。
	IsNameUnique(ctx context.Context, name string, excludeID *int64) (bool, error)
}
