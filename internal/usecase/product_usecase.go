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

type ProductUsecase struct {
	uowFactory repo.UnitOfWorkFactory
}

// DI
func NewProductUsecase(uowFactory repo.UnitOfWorkFactory) *ProductUsecase {
	return &ProductUsecase{uowFactory: uowFactory}
}

// 作成・更新で共通の入力
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Stock       int64
	CategoryID  int64
}

func (u *ProductUsecase) validateInput(in ProductInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", NewValidationError("name required")
	}
	// 上限はバイト数ではなく文字数
	if utf8.RuneCountInString(name) > 200 {
		return "", NewValidationError("name must be 200 characters or less")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > 1000 {
		return "", NewValidationError("description must be 1000 characters or less")
	}
	if in.Price <= 0 {
		return "", NewValidationError("price must be greater than 0")
	}
	if in.Stock < 0 {
		return "", NewValidationError("stock must be >= 0")
	}
	if in.CategoryID <= 0 {
		return "", NewValidationError("invalid category id")
	}
	return name, nil
}

func (u *ProductUsecase) GetAll(ctx context.Context) ([]ProductDTO, error) {
	uow := u.uowFactory.New()
	defer uow.Close()

	ps, err := uow.Products().GetAllWithCategory(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return toProductDTOs(ps), nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, id int64) (ProductDTO, error) {
	if id <= 0 {
		return ProductDTO{}, NewValidationError("invalid product id")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	p, err := uow.Products().GetWithCategory(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDTO{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	return toProductDTO(p), nil
}

// カテゴリの存在は確かめない（無ければ空のまま返す）
func (u *ProductUsecase) GetByCategory(ctx context.Context, categoryID int64) ([]ProductDTO, error) {
	if categoryID <= 0 {
		return nil, NewValidationError("invalid category id")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	ps, err := uow.Products().GetByCategory(ctx, categoryID)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return toProductDTOs(ps), nil
}

func (u *ProductUsecase) Search(ctx context.Context, term string) ([]ProductDTO, error) {
	// 空の検索語は呼び出し側の誤り
	if strings.TrimSpace(term) == "" {
		return nil, NewValidationError("search term cannot be empty")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	ps, err := uow.Products().Search(ctx, term)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return toProductDTOs(ps), nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (ProductDTO, error) {
	name, err := u.validateInput(in)
	if err != nil {
		return ProductDTO{}, err
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	// カテゴリ存在 → 名前一意 → 追加 → save → 再取得の順を守る
	exists, err := uow.Categories().Exists(ctx, in.CategoryID)
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	if !exists {
		return ProductDTO{}, NewValidationError("category does not exist")
	}

	unique, err := uow.Products().IsNameUnique(ctx, name, nil)
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	if !unique {
		return ProductDTO{}, NewValidationError("product name already exists")
	}

	p := model.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := uow.Products().Add(ctx, &p); err != nil {
		return ProductDTO{}, storageOrDuplicate(err, "product name already exists")
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return ProductDTO{}, storageOrDuplicate(err, "product name already exists")
	}

	created, err := uow.Products().GetWithCategory(ctx, p.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDTO{}, NewInvariantError("created product missing on re-fetch")
	}
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	return toProductDTO(created), nil
}

func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput) (ProductDTO, error) {
	if id <= 0 {
		return ProductDTO{}, NewValidationError("invalid product id")
	}
	name, err := u.validateInput(in)
	if err != nil {
		return ProductDTO{}, err
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	existing, err := uow.Products().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDTO{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}

	exists, err := uow.Categories().Exists(ctx, in.CategoryID)
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	if !exists {
		return ProductDTO{}, NewValidationError("category does not exist")
	}

	unique, err := uow.Products().IsNameUnique(ctx, name, &id)
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	if !unique {
		return ProductDTO{}, NewValidationError("product name already exists")
	}

	existing.Name = name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.CategoryID = in.CategoryID
	if err := uow.Products().Update(ctx, &existing); err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return ProductDTO{}, storageOrDuplicate(err, "product name already exists")
	}

	updated, err := uow.Products().GetWithCategory(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDTO{}, NewInvariantError("updated product missing on re-fetch")
	}
	if err != nil {
		return ProductDTO{}, NewStorageError(err)
	}
	return toProductDTO(updated), nil
}

func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid product id")
	}

	uow := u.uowFactory.New()
	defer uow.Close()

	existing, err := uow.Products().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewStorageError(err)
	}

	existing.SoftDelete(time.Now().UTC())
	if err := uow.Products().Update(ctx, &existing); err != nil {
		return NewStorageError(err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return NewStorageError(err)
	}
	return nil
}
