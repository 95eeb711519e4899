package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/controllers"
	"github.com/mealyhq/mealy-api/middlewares"
	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/utils"
)

func setupMenuTestDB(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Caterer{},
		&models.Meal{},
		&models.MenuEntry{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupMenuTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	tokens := utils.NewTokenService(testConfig())
	menuCtrl := controllers.NewMenuController(db)

	r.GET("/menu/:date", menuCtrl.GetMenuByDate)

	catering := r.Group("/")
	catering.Use(
		middlewares.Authenticate(tokens),
		middlewares.RequireRoles(models.RoleCaterer, models.RoleAdmin),
	)
	{
		catering.POST("/menu/:date", menuCtrl.SetMenuForDate)
	}

	return r
}

func TestSetAndGetMenu(t *testing.T) {
	db := setupMenuTestDB("menubasic")
	r := setupMenuTestRouter(db)

	catererToken := seedIdentity(db, "menuchef", models.RoleCaterer)

	var caterer models.Caterer
	db.Where("username = ?", "menuchef").First(&caterer)

	pizza := models.Meal{CatererID: caterer.ID, Name: "Pizza", Price: 12.50}
	salad := models.Meal{CatererID: caterer.ID, Name: "Salad", Price: 6.00}
	db.Create(&pizza)
	db.Create(&salad)

	w := jsonRequest(r, "POST", "/menu/2026-09-01", map[string]interface{}{
		"meal_ids": []uint{pizza.ID, salad.ID},
	}, catererToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(r, "GET", "/menu/2026-09-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pizza")
	assert.Contains(t, w.Body.String(), "Salad")

	// Another day stays empty.
	w = jsonRequest(r, "GET", "/menu/2026-09-02", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Pizza")
}

func TestSetMenuReplacesPreviousEntries(t *testing.T) {
	db := setupMenuTestDB("menureplace")
	r := setupMenuTestRouter(db)

	catererToken := seedIdentity(db, "replacechef", models.RoleCaterer)

	var caterer models.Caterer
	db.Where("username = ?", "replacechef").First(&caterer)

	stew := models.Meal{CatererID: caterer.ID, Name: "Stew", Price: 9.00}
	curry := models.Meal{CatererID: caterer.ID, Name: "Curry", Price: 11.00}
	db.Create(&stew)
	db.Create(&curry)

	w := jsonRequest(r, "POST", "/menu/2026-09-01", map[string]interface{}{
		"meal_ids": []uint{stew.ID},
	}, catererToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(r, "POST", "/menu/2026-09-01", map[string]interface{}{
		"meal_ids": []uint{curry.ID},
	}, catererToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(r, "GET", "/menu/2026-09-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Curry")
	assert.NotContains(t, w.Body.String(), "Stew")
}

func TestSetMenuAcceptsLegacyDateFormat(t *testing.T) {
	db := setupMenuTestDB("menulegacy")
	r := setupMenuTestRouter(db)

	catererToken := seedIdentity(db, "legacychef", models.RoleCaterer)

	var caterer models.Caterer
	db.Where("username = ?", "legacychef").First(&caterer)

	meal := models.Meal{CatererID: caterer.ID, Name: "Roast", Price: 14.00}
	db.Create(&meal)

	w := jsonRequest(r, "POST", "/menu/10-27-2026", map[string]interface{}{
		"meal_ids": []uint{meal.ID},
	}, catererToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Both spellings resolve to the same day.
	w = jsonRequest(r, "GET", "/menu/2026-10-27", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Roast")
}

func TestSetMenuRejectsUnknownMeals(t *testing.T) {
	db := setupMenuTestDB("menuunknown")
	r := setupMenuTestRouter(db)

	catererToken := seedIdentity(db, "unknownchef", models.RoleCaterer)

	w := jsonRequest(r, "POST", "/menu/2026-09-01", map[string]interface{}{
		"meal_ids": []uint{12345},
	}, catererToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuRejectsBadDate(t *testing.T) {
	db := setupMenuTestDB("menubaddate")
	r := setupMenuTestRouter(db)

	w := jsonRequest(r, "GET", "/menu/not-a-date", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
