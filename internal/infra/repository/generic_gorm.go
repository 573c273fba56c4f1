package repository

import (
	"context"
	"errors"

	repo "catalog/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GenericGormRepository は1エンティティ分のCRUD。
// 読み取りはgormのDeletedAtスコープで常に論理削除済みを除外する。
// ここを迂回する読み取り経路（Unscoped）は公開しない。
type GenericGormRepository[T any] struct {
	uow *GormUnitOfWork
}

func (r *GenericGormRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var e T
	err := r.uow.conn(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, repo.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, translateError(err)
	}
	return e, nil
}

// 並びはidで固定（1回の読み取り内で一貫させる）
func (r *GenericGormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var es []T
	if err := r.uow.conn(ctx).Order("id").Find(&es).Error; err != nil {
		return nil, translateError(err)
	}
	return es, nil
}

func (r *GenericGormRepository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.uow.conn(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// AddはINSERTを即時に実行する（IDの採番のため）。確定はSaveChangesまで保留。
func (r *GenericGormRepository[T]) Add(ctx context.Context, e *T) error {
	res := r.uow.conn(ctx).Omit(clause.Associations).Create(e)
	if res.Error != nil {
		return translateError(res.Error)
	}
	r.uow.noteInserted(res.RowsAffected)
	return nil
}

// Updateは実行せずステージする。updated_atはSaveChangesで打つ。
func (r *GenericGormRepository[T]) Update(ctx context.Context, e *T) error {
	r.uow.stageUpdate(e)
	return nil
}

func (r *GenericGormRepository[T]) IsNameUnique(ctx context.Context, name string, excludeID *int64) (bool, error) {
	q := r.uow.conn(ctx).Model(new(T)).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count == 0, nil
}
