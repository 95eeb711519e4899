package models

import "time"

const OrderStatusPending = "pending"

// Order records a purchase of a meal. TotalAmount is the price
// snapshot taken when the order was placed; later meal price changes
// never touch it.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	MealID      uint      `gorm:"not null" json:"meal_id"`
	Meal        Meal      `gorm:"foreignKey:MealID" json:"meal"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	TotalAmount float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
