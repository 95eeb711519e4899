package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/config"
	"github.com/mealyhq/mealy-api/middlewares"
	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/router"
	"github.com/mealyhq/mealy-api/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func integrationConfig() config.Config {
	return config.Config{
		JWTSecret:        []byte("integration-test-secret"),
		TokenLifetime:    5 * time.Hour,
		RefreshThreshold: 30 * time.Minute,
	}
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Caterer{},
		&models.Meal{},
		&models.MenuEntry{},
		&models.Order{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func request(r *gin.Engine, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// TestEndToEndIntegration walks the main flow through the full router:
// a customer registers and logs in but cannot touch the meal catalog,
// a caterer registers (getting both a user and a catering profile),
// publishes a meal, and the customer orders it at a frozen total.
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB()
	r := router.SetupRouter(db, integrationConfig())

	// Alice signs up as a customer.
	w := request(r, "POST", "/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw",
		"role":     "customer",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "POST", "/login", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	aliceData := dataOf(t, w)
	aliceToken := aliceData["access_token"].(string)
	assert.Equal(t, "customer", aliceData["role"])

	// The catalog is closed to customers.
	w = request(r, "GET", "/meals", nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bob signs up as a caterer and gets both rows.
	w = request(r, "POST", "/register", map[string]string{
		"username": "bob",
		"email":    "b@x.com",
		"password": "pw",
		"role":     "caterer",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var bob models.User
	assert.NoError(t, db.Where("username = ?", "bob").First(&bob).Error)
	var bobProfile models.Caterer
	assert.NoError(t, db.Where("user_id = ?", bob.ID).First(&bobProfile).Error)

	w = request(r, "POST", "/login", map[string]string{
		"username": "bob",
		"email":    "b@x.com",
		"password": "pw",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	bobData := dataOf(t, w)
	bobToken := bobData["access_token"].(string)
	assert.Equal(t, "caterer", bobData["role"])

	// Bob publishes a meal.
	w = request(r, "POST", "/meals", map[string]interface{}{
		"name":        "Ugali and Fish",
		"description": "House special",
		"price":       10.00,
	}, bobToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	mealID := uint(dataOf(t, w)["id"].(float64))

	// Bob schedules it for today.
	w = request(r, "POST", "/menu/2026-09-01", map[string]interface{}{
		"meal_ids": []uint{mealID},
	}, bobToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Anyone can browse the day's menu.
	w = request(r, "GET", "/menu/2026-09-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ugali and Fish")

	// Alice orders three portions; the total is frozen at order time.
	w = request(r, "POST", "/order", map[string]interface{}{
		"meal_id":  mealID,
		"quantity": 3,
	}, aliceToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(dataOf(t, w)["order_id"].(float64))

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, 30.00, order.TotalAmount)

	w = request(r, "PUT", "/meals/"+itoa(mealID), map[string]interface{}{
		"price": 42.00,
	}, bobToken)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, 30.00, order.TotalAmount)

	// Authenticated directory access; anonymous callers stay out.
	w = request(r, "GET", "/users", nil, aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, "GET", "/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Revenue reflects the frozen order total.
	w = request(r, "GET", "/earnings", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30.00, dataOf(t, w)["total"])
}

// TestSlidingRefreshThroughRouter presents a nearly expired token on a
// protected route and expects a fresh one in the response body.
func TestSlidingRefreshThroughRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB()
	cfg := integrationConfig()
	r := router.SetupRouter(db, cfg)

	w := request(r, "POST", "/register", map[string]string{
		"username": "sliding",
		"email":    "sliding@x.com",
		"password": "pw",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	assert.NoError(t, db.Where("username = ?", "sliding").First(&user).Error)

	shortLived := utils.NewTokenService(config.Config{
		JWTSecret:     cfg.JWTSecret,
		TokenLifetime: time.Minute,
	})
	oldToken, err := shortLived.Issue(user.ID, user.Role)
	assert.NoError(t, err)

	w = request(r, "GET", "/users", nil, oldToken)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	fresh, ok := body[middlewares.AccessTokenField].(string)
	assert.True(t, ok)
	assert.NotEqual(t, oldToken, fresh)

	claims, err := utils.NewTokenService(cfg).Parse(fresh)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

// TestRateLimitThroughRouter floods a single client and expects the
// per-IP window to start rejecting once the budget is spent. Each
// router instance carries its own limiter, so the flood here cannot
// bleed into the other tests.
func TestRateLimitThroughRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB()
	r := router.SetupRouter(db, integrationConfig())

	for i := 0; i < 50; i++ {
		w := request(r, "GET", "/ping", nil, "")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := request(r, "GET", "/ping", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
