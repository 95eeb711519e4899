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

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// PlaceOrder creates an order for the authenticated caller. The total
// is computed from the meal's current price and frozen on the order.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req struct {
		MealID   uint `json:"meal_id"`
		Quantity int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.MealID == 0 || req.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("meal_id and a positive quantity are required"))
		return
	}

	var meal models.Meal
	if err := oc.DB.First(&meal, req.MealID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	order := models.Order{
		UserID:      middlewares.GetUserID(c),
		MealID:      meal.ID,
		Quantity:    req.Quantity,
		TotalAmount: meal.Price * float64(req.Quantity),
		Status:      models.OrderStatusPending,
	}
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d placed by user %d (meal=%d qty=%d total=%.2f)",
		order.ID, order.UserID, order.MealID, order.Quantity, order.TotalAmount)

	utils.RespondJSON(c, http.StatusCreated, "Order placed", gin.H{
		"order_id": order.ID,
	})
}

// GetAllOrders lists every order with its meal.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Meal").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus sets the status field of an order.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if err := oc.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetEarnings reports total revenue across all orders.
func (oc *OrderController) GetEarnings(c *gin.Context) {
	var total float64
	if err := oc.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Total earnings", gin.H{
		"total":           total,
		"total_formatted": utils.FormatCurrency(total),
	})
}
