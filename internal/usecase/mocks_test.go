package usecase_test

import (
	"context"

	"catalog/internal/domain/model"
	repo "catalog/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（リポジトリ / UnitOfWork）
// =====================

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) GetByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) GetAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CategoryRepoMock) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CategoryRepoMock) Add(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) GetWithProducts(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) GetAllWithProducts(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CategoryRepoMock) IsNameUnique(ctx context.Context, name string, excludeID *int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) GetByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepoMock) Add(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) GetByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	args := m.Called(ctx, categoryID)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) GetWithCategory(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) GetAllWithCategory(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Search(ctx context.Context, term string) ([]model.Product, error) {
	args := m.Called(ctx, term)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) IsNameUnique(ctx context.Context, name string, excludeID *int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

type UnitOfWorkMock struct {
	mock.Mock
	categories *CategoryRepoMock
	products   *ProductRepoMock
}

func newUnitOfWorkMock() *UnitOfWorkMock {
	return &UnitOfWorkMock{
		categories: &CategoryRepoMock{},
		products:   &ProductRepoMock{},
	}
}

func (m *UnitOfWorkMock) Categories() repo.CategoryRepository { return m.categories }
func (m *UnitOfWorkMock) Products() repo.ProductRepository    { return m.products }

func (m *UnitOfWorkMock) SaveChanges(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UnitOfWorkMock) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *UnitOfWorkMock) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *UnitOfWorkMock) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *UnitOfWorkMock) Close() error {
	return m.Called().Error(0)
}

// factoryは毎回同じmockを返せば十分
type uowFactoryStub struct {
	uow repo.UnitOfWork
}

func (f *uowFactoryStub) New() repo.UnitOfWork { return f.uow }
