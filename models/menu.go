package models

import "time"

// MenuEntry schedules a meal for a given day. Date is stored in the
// canonical YYYY-MM-DD form.
type MenuEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_menu_day_meal" json:"date"`
	MealID    uint      `gorm:"not null;uniqueIndex:idx_menu_day_meal" json:"meal_id"`
	Meal      Meal      `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"meal"`
	CatererID uint      `gorm:"index;not null" json:"caterer_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
