package repository

import (
	"context"
	"errors"
	"strings"

	"catalog/internal/domain/model"
	repo "catalog/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	GenericGormRepository[model.Product]
}

func NewProductGormRepository(uow *GormUnitOfWork) *ProductGormRepository {
	return &ProductGormRepository{GenericGormRepository[model.Product]{uow: uow}}
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)

func (r *ProductGormRepository) GetByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var ps []model.Product
	err := r.uow.conn(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&ps).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ps, nil
}

func (r *ProductGormRepository) GetWithCategory(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.uow.conn(ctx).Preload("Category").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, translateError(err)
	}
	return p, nil
}

func (r *ProductGormRepository) GetAllWithCategory(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product
	if err := r.uow.conn(ctx).Preload("Category").Order("id").Find(&ps).Error; err != nil {
		return nil, translateError(err)
	}
	return ps, nil
}

// LIKEのメタ文字は検索語の文字そのものとして扱う
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// 名前・説明の部分一致。照合はDB既定に任せる。説明NULLはマッチしない。
func (r *ProductGormRepository) Search(ctx context.Context, term string) ([]model.Product, error) {
	like := "%" + likeEscaper.Replace(term) + "%"
	var ps []model.Product
	err := r.uow.conn(ctx).
		Preload("Category").
		Where("name LIKE ? ESCAPE '\\' OR (description IS NOT NULL AND description LIKE ? ESCAPE '\\')", like, like).
		Order("id").
		Find(&ps).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ps, nil
}
