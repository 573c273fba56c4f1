package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description *string        `gorm:"type:varchar(500)" json:"description"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   *time.Time     `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// created_atはUTCで一度だけ
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (c *Category) SetUpdatedAt(t time.Time) {
	c.UpdatedAt = &t
}

// 論理削除。行は消さずフラグだけ立てる
func (c *Category) SoftDelete(t time.Time) {
	c.DeletedAt = gorm.DeletedAt{Time: t, Valid: true}
}
