package models

import "time"

type Meal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CatererID   uint      `gorm:"index;not null" json:"caterer_id"`
	Caterer     Caterer   `gorm:"foreignKey:CatererID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
