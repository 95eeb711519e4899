package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/middlewares"
	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/utils"
)

type MealController struct {
	DB *gorm.DB
}

func NewMealController(db *gorm.DB) *MealController {
	return &MealController{DB: db}
}

// catererForCaller resolves the catering profile of the authenticated
// user. Role gating guarantees one exists for caterer/admin callers.
func (mc *MealController) catererForCaller(c *gin.Context) (*models.Caterer, error) {
	var caterer models.Caterer
	if err := mc.DB.Where("user_id = ?", middlewares.GetUserID(c)).First(&caterer).Error; err != nil {
		return nil, errors.New("no catering profile for this account")
	}
	return &caterer, nil
}

// GetAllMeals lists the caller's meal catalog.
func (mc *MealController) GetAllMeals(c *gin.Context) {
	caterer, err := mc.catererForCaller(c)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var meals []models.Meal
	if err := mc.DB.Where("caterer_id = ?", caterer.ID).Find(&meals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of meals", meals)
}

// CreateMeal adds a meal to the caller's catalog.
func (mc *MealController) CreateMeal(c *gin.Context) {
	type request struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("meal name is required"))
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("meal price must not be negative"))
		return
	}

	caterer, err := mc.catererForCaller(c)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	meal := models.Meal{
		CatererID:   caterer.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if err := mc.DB.Create(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Meal created", meal)
}

// UpdateMeal applies a partial update to one of the caller's meals.
func (mc *MealController) UpdateMeal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	caterer, err := mc.catererForCaller(c)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var meal models.Meal
	if err := mc.DB.Where("id = ? AND caterer_id = ?", id, caterer.ID).First(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	type request struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		meal.Name = *req.Name
	}
	if req.Description != nil {
		meal.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("meal price must not be negative"))
			return
		}
		meal.Price = *req.Price
	}
	if req.ImageURL != nil {
		meal.ImageURL = *req.ImageURL
	}

	if err := mc.DB.Save(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal updated", meal)
}

// DeleteMeal removes one of the caller's meals.
func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	caterer, err := mc.catererForCaller(c)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	result := mc.DB.Where("id = ? AND caterer_id = ?", id, caterer.ID).Delete(&models.Meal{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal deleted", nil)
}
