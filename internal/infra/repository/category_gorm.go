package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/model"
	repo "catalog/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	GenericGormRepository[model.Category]
}

func NewCategoryGormRepository(uow *GormUnitOfWork) *CategoryGormRepository {
	return &CategoryGormRepository{GenericGormRepository[model.Category]{uow: uow}}
}

var _ repo.CategoryRepository = (*CategoryGormRepository)(nil)

// 商品込みで取得。Preloadにも論理削除のフィルタが効く。
func (r *CategoryGormRepository) GetWithProducts(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.uow.conn(ctx).Preload("Products").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, translateError(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) GetAllWithProducts(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	if err := r.uow.conn(ctx).Preload("Products").Order("id").Find(&cs).Error; err != nil {
		return nil, translateError(err)
	}
	return cs, nil
}
