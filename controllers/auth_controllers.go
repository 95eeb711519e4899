package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/middlewares"
	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/utils"
)

type AuthController struct {
	DB     *gorm.DB
	Tokens *utils.TokenService
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenService) *AuthController {
	return &AuthController{DB: db, Tokens: tokens}
}

// Register creates a new user. Caterer and admin registrations also get
// a catering profile, written in the same transaction so the pair is
// all-or-nothing.
func (ac *AuthController) Register(c *gin.Context) {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("username, email and password are required"))
		return
	}

	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if !models.ValidRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role: "+req.Role))
		return
	}

	var count int64
	if err := ac.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("username or email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Role == models.RoleCaterer || user.Role == models.RoleAdmin {
			caterer := models.Caterer{
				UserID:   user.ID,
				Username: user.Username,
				Email:    user.Email,
			}
			if err := tx.Create(&caterer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Two concurrent registrations can both pass the count check;
		// the unique indexes decide the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("username or email already registered"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Username, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "Signed up successfully", gin.H{
		"user_id": user.ID,
	})
}

// Login verifies username, email and password together and issues an
// access token. Every mismatch surfaces as the same 401 so callers
// cannot probe which part was wrong.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.Where("username = ? AND email = ?", input.Username, input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := ac.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s (role=%s)", user.Username, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"access_token": token,
		"role":         user.Role,
	})
}

// ChangePassword updates the caller's own password after verifying the
// current one.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.CurrentPassword == "" || input.NewPassword == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("current_password and new_password are required"))
		return
	}

	userID := middlewares.GetUserID(c)

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("current password does not match"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password changed successfully", nil)
}

// Logout acknowledges the request. Tokens are stateless, so ending a
// session means the client discards its copy.
func (ac *AuthController) Logout(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}
