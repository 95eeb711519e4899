package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/utils"
)

type CatererController struct {
	DB     *gorm.DB
	Tokens *utils.TokenService
}

func NewCatererController(db *gorm.DB, tokens *utils.TokenService) *CatererController {
	return &CatererController{DB: db, Tokens: tokens}
}

// GetAllCaterers lists every catering profile.
func (cc *CatererController) GetAllCaterers(c *gin.Context) {
	var caterers []models.Caterer
	if err := cc.DB.Find(&caterers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All caterers", caterers)
}

// Login is the caterer-specific login variant: email and password
// against a user that owns a catering profile.
func (cc *CatererController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var caterer models.Caterer
	if err := cc.DB.Where("email = ?", input.Email).First(&caterer).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	var user models.User
	if err := cc.DB.First(&user, caterer.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := cc.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"access_token": token,
		"role":         user.Role,
	})
}
