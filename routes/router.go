package routes

import (
	"resto-api/controllers"
	"resto-api/middlewares"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Orders     *controllers.OrderController
	Promotions *controllers.PromotionController
	Health     *controllers.HealthController
}

func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret string) {

	r.GET("/health", h.Health.Health)

	staff := middlewares.RoleMiddleware("Owner", "Employee")

	// Orders
	orders := r.Group("/orders")
	orders.Use(middlewares.AuthMiddleware(jwtSecret), staff)
	{
		orders.POST("", h.Orders.CreateOrders)
		orders.GET("", h.Orders.GetOrders)
		orders.PATCH("/pay", h.Orders.PayOrders)
		orders.POST("/pay/preview", h.Orders.PreviewPayment)
		orders.GET("/:id", h.Orders.GetOrderDetail)
		orders.PATCH("/:id", h.Orders.UpdateOrder)
	}

	// Promotions
	promotions := r.Group("/promotions")
	promotions.Use(middlewares.AuthMiddleware(jwtSecret), staff)
	{
		promotions.GET("", h.Promotions.GetActivePromotions)
	}
}
