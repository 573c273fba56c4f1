package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"catalog/internal/domain/model"
	repo "catalog/internal/repository"
)

type CategoryUsecase struct {
	uowFactory repo.UnitOfWorkFactory
}

// DI
func NewCategoryUsecase(uowFactory repo.UnitOfWorkFactory) *CategoryUsecase {
	return &CategoryUsecase{uowFactory: uowFactory}
}

// 作成・更新で共通の入力
type CategoryInput struct {
	Name        string
	Description *string
}

func (u *CategoryUsecase) validateInput(in CategoryInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", NewValidationError("name required")
	}
	// 上限はバイト数ではなく文字数
	if utf8.RuneCountInString(name) > 100 {
		return "", NewValidationError("name must be 100 characters or less")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > 500 {
		return "", NewValidationError("description must be 500 characters or less")
	}
	return name, nil
}

// 一覧は商品数込みで返す
func (u *CategoryUsecase) GetAll(ctx context.Context) ([]CategoryDTO, error) {
	uow := u.uowFactory.New()
	defer uow.Close()

	cs, err := uow.Categories().GetAllWithProducts(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return toCategoryDTOs(cs), nil
}

func (u *CategoryUsecase) GetByID(ctx context.Context, id int64) (CategoryDTO, error) {
	if id <= 0 {
		return CategoryDTO{}, NewValidationError("invalid category id")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	c, err := uow.Categories().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CategoryDTO{}, NewNotFoundError("category not found")
	}
	if err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}
	return toCategoryDTO(c), nil
}

func (u *CategoryUsecase) GetWithProducts(ctx context.Context, id int64) (CategoryWithProductsDTO, error) {
	if id <= 0 {
		return CategoryWithProductsDTO{}, NewValidationError("invalid category id")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	c, err := uow.Categories().GetWithProducts(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CategoryWithProductsDTO{}, NewNotFoundError("category not found")
	}
	if err != nil {
		return CategoryWithProductsDTO{}, NewStorageError(err)
	}
	return CategoryWithProductsDTO{
		CategoryDTO: toCategoryDTO(c),
		Products:    toProductDTOs(c.Products),
	}, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (CategoryDTO, error) {
	name, err := u.validateInput(in)
	if err != nil {
		return CategoryDTO{}, err
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	// 名前の一意チェック → 追加 → save → 再取得の順を守る
	unique, err := uow.Categories().IsNameUnique(ctx, name, nil)
	if err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}
	if !unique {
		return CategoryDTO{}, NewValidationError("category name already exists")
	}

	c := model.Category{Name: name, Description: in.Description}
	if err := uow.Categories().Add(ctx, &c); err != nil {
		return CategoryDTO{}, storageOrDuplicate(err, "category name already exists")
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return CategoryDTO{}, storageOrDuplicate(err, "category name already exists")
	}

	// save成功後に消えているのはユーザーエラーではなく破損
	created, err := uow.Categories().GetByID(ctx, c.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return CategoryDTO{}, NewInvariantError("created category missing on re-fetch")
	}
	if err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}
	return toCategoryDTO(created), nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (CategoryDTO, error) {
	if id <= 0 {
		return CategoryDTO{}, NewValidationError("invalid category id")
	}
	name, err := u.validateInput(in)
	if err != nil {
		return CategoryDTO{}, err
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	existing, err := uow.Categories().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CategoryDTO{}, NewNotFoundError("category not found")
	}
	if err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}

	// 自分自身は除外して一意チェック（同名のままの更新を許す）
	unique, err := uow.Categories().IsNameUnique(ctx, name, &id)
	if err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}
	if !unique {
		return CategoryDTO{}, NewValidationError("category name already exists")
	}

	existing.Name = name
	existing.Description = in.Description
	if err := uow.Categories().Update(ctx, &existing); err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return CategoryDTO{}, storageOrDuplicate(err, "category name already exists")
	}

	updated, err := uow.Categories().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CategoryDTO{}, NewInvariantError("updated category missing on re-fetch")
	}
	if err != nil {
		return CategoryDTO{}, NewStorageError(err)
	}
	return toCategoryDTO(updated), nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid category id")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	// 参照チェックと削除を同じトランザクションで確定する
	if err := uow.Begin(ctx); err != nil {
		return NewStorageError(err)
	}

	c, err := uow.Categories().GetWithProducts(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("category not found")
	}
	if err != nil {
		return NewStorageError(err)
	}

	// 生きている商品が参照している間は削除できない（カスケードはしない）
	if len(c.Products) > 0 {
		return NewConflictError("cannot delete category that contains products")
	}

	c.SoftDelete(time.Now().UTC())
	if err := uow.Categories().Update(ctx, &c); err != nil {
		return NewStorageError(err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return NewStorageError(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return NewStorageError(err)
	}
	return nil
}

func (u *CategoryUsecase) Exists(ctx context.Context, id int64) (bool, error) {
	uow := u.uowFactory.New()
	defer uow.Close()

	ok, err := uow.Categories().Exists(ctx, id)
	if err != nil {
		return false, NewStorageError(err)
	}
	return ok, nil
}

func (u *CategoryUsecase) IsNameUnique(ctx context.Context, name string, excludeID *int64) (bool, error) {
	uow := u.uowFactory.New()
	defer uow.Close()

	ok, err := uow.Categories().IsNameUnique(ctx, name, excludeID)
	if err != nil {
		return false, NewStorageError(err)
	}
	return ok, nil
}
