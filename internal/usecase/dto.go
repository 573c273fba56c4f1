package usecase

import (
	"time"

	"catalog/internal/domain/model"
)

// CategoryDTO のProductCountは一緒に読み込んだ商品の数。
// JOINしない取得経路では0のまま。
type CategoryDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	ProductCount int        `json:"product_count"`
}

type CategoryWithProductsDTO struct {
	CategoryDTO
	Products []ProductDTO `json:"products"`
}

type ProductDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Price        float64    `json:"price"`
	Stock        int64      `json:"stock"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// 対応フィールドを1つずつ明示的に詰め替える
func toCategoryDTO(c model.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		ProductCount: len(c.Products),
	}
}

func toCategoryDTOs(cs []model.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryDTO(c))
	}
	return out
}

func toProductDTO(p model.Product) ProductDTO {
	d := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category.ID != 0 {
		d.CategoryName = p.Category.Name
	}
	return d
}

func toProductDTOs(ps []model.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductDTO(p))
	}
	return out
}
