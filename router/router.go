package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealyhq/mealy-api/config"
	"github.com/mealyhq/mealy-api/controllers"
	"github.com/mealyhq/mealy-api/middlewares"
	"github.com/mealyhq/mealy-api/models"
	"github.com/mealyhq/mealy-api/utils"
)

// SetupRouter wires every route. The three groups below are the whole
// access-control policy: a route is public, open to any authenticated
// identity, or restricted to catering staff. Role checks live here and
// nowhere else.
func SetupRouter(db *gorm.DB, cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	tokens := utils.NewTokenService(cfg)

	authCtrl := controllers.NewAuthController(db, tokens)
	userCtrl := controllers.NewUserController(db)
	catererCtrl := controllers.NewCatererController(db, tokens)
	mealCtrl := controllers.NewMealController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)

	strictLimit := middlewares.NewStrictRateLimiter()

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST("/register", strictLimit, authCtrl.Register)
	r.POST("/login", strictLimit, authCtrl.Login)
	r.POST("/logout", authCtrl.Logout)

	r.GET("/caterers", catererCtrl.GetAllCaterers)
	r.POST("/caterers", strictLimit, catererCtrl.Login)

	r.GET("/menu/:date", menuCtrl.GetMenuByDate)

	r.PUT("/order/:id", orderCtrl.UpdateOrderStatus)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/earnings", orderCtrl.GetEarnings)

	// ----------------------------------------------------------------
	//                 ANY AUTHENTICATED IDENTITY
	// ----------------------------------------------------------------
	authed := r.Group("/")
	authed.Use(
		middlewares.Authenticate(tokens),
		middlewares.SlidingRefresh(tokens, cfg.RefreshThreshold),
	)
	{
		authed.GET("/users", userCtrl.GetAllUsers)
		authed.GET("/user/:id", userCtrl.GetUser)
		authed.POST("/order", orderCtrl.PlaceOrder)
		authed.POST("/password", authCtrl.ChangePassword)
	}

	// ----------------------------------------------------------------
	//                    CATERING STAFF ONLY
	// ----------------------------------------------------------------
	catering := r.Group("/")
	catering.Use(
		middlewares.Authenticate(tokens),
		middlewares.RequireRoles(models.RoleCaterer, models.RoleAdmin),
		middlewares.SlidingRefresh(tokens, cfg.RefreshThreshold),
	)
	{
		catering.GET("/meals", mealCtrl.GetAllMeals)
		catering.POST("/meals", mealCtrl.CreateMeal)
		catering.PUT("/meals/:id", mealCtrl.UpdateMeal)
		catering.DELETE("/meals/:id", mealCtrl.DeleteMeal)
		catering.POST("/menu/:date", menuCtrl.SetMenuForDate)
	}

	return r
}
