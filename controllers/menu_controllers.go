package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/middlewares"
	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// menuDateLayouts are the accepted spellings of a menu day. Dates are
// normalized to the first layout before storage and lookup.
var menuDateLayouts = []string{"2006-01-02", "01-02-2006"}

func parseMenuDate(raw string) (string, error) {
	for _, layout := range menuDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format(menuDateLayouts[0]), nil
		}
	}
	return "", errors.New("invalid date, expected YYYY-MM-DD or MM-DD-YYYY")
}

// GetMenuByDate lists the meals scheduled for a given day.
func (mc *MenuController) GetMenuByDate(c *gin.Context) {
	date, err := parseMenuDate(c.Param("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var entries []models.MenuEntry
	if err := mc.DB.Preload("Meal").Where("date = ?", date).Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	meals := make([]models.Meal, 0, len(entries))
	for _, entry := range entries {
		meals = append(meals, entry.Meal)
	}

	utils.RespondJSON(c, http.StatusOK, "Menu for "+date, gin.H{
		"date":  date,
		"meals": meals,
	})
}

// SetMenuForDate replaces the caller's menu for a day with the given
// meals. Only meals from the caller's own catalog can be scheduled.
func (mc *MenuController) SetMenuForDate(c *gin.Context) {
	date, err := parseMenuDate(c.Param("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		MealIDs []uint `json:"meal_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var caterer models.Caterer
	if err := mc.DB.Where("user_id = ?", middlewares.GetUserID(c)).First(&caterer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no catering profile for this account"))
		return
	}

	var meals []models.Meal
	if err := mc.DB.Where("id IN ? AND caterer_id = ?", req.MealIDs, caterer.ID).Find(&meals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(meals) != len(req.MealIDs) {
		utils.RespondError(c, http.StatusNotFound, errors.New("one or more meals not found in your catalog"))
		return
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ? AND caterer_id = ?", date, caterer.ID).
			Delete(&models.MenuEntry{}).Error; err != nil {
			return err
		}
		for _, meal := range meals {
			entry := models.MenuEntry{
				Date:      date,
				MealID:    meal.ID,
				CatererID: caterer.ID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu set successfully for "+date, gin.H{
		"date":     date,
		"meal_ids": req.MealIDs,
	})
}
