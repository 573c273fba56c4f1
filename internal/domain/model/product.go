package model

import (
	"time"

	"gorm.io/gorm"
)

// Mutable はsave時にupdated_atを打てるエンティティ。
type Mutable interface {
	SetUpdatedAt(t time.Time)
}

type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`
	Description *string        `gorm:"type:varchar(1000)" json:"description"`
	Price       float64        `gorm:"type:decimal(18,2);not null" json:"price"`
	Stock       int64          `gorm:"not null;default:0" json:"stock"`
	CategoryID  int64          `gorm:"not null;index" json:"category_id"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   *time.Time     `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// カテゴリ削除はカスケードしない（商品が残る限りブロック）
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (p *Product) SetUpdatedAt(t time.Time) {
	p.UpdatedAt = &t
}

func (p *Product) SoftDelete(t time.Time) {
	p.DeletedAt = gorm.DeletedAt{Time: t, Valid: true}
}
