package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/middleware"
	"github.com/craftsphere/marketplace/internal/models"
)

type Deps struct {
	Auth      *AuthHTTP
	Cart      *CartHTTP
	Product   *ProductHTTP
	Order     *OrderHTTP
	Workshop  *WorkshopHTTP
	Request   *RequestHTTP
	Ticket    *TicketHTTP
	User      *UserHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.RequireAuth(d.JWTSecret)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	artisanOnly := middleware.RequireRole(models.RoleArtisan)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// auth
	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	// public catalog
	products := e.Group("/products")
	products.GET("", d.Product.GetProducts)
	products.GET("/search", d.Product.SearchProducts)
	products.GET("/:id", d.Product.GetProduct)

	// artisan listings
	artisan := e.Group("/artisan/products", authMW, artisanOnly)
	artisan.GET("", d.Product.GetMyProducts)
	artisan.POST("", d.Product.CreateProduct)
	artisan.PATCH("/:id", d.Product.PatchProduct)
	artisan.DELETE("/:id", d.Product.DeleteProduct)

	// moderation
	moderation := e.Group("/moderation/products", authMW, staff)
	moderation.GET("", d.Product.GetProductsByStatus)
	moderation.POST("/:id/approval", d.Product.ApproveProduct)
	moderation.DELETE("/:id", d.Product.DeleteProduct)
	moderation.DELETE("/:productID/carts", d.Cart.RemoveProductFromAllCarts)

	// cart
	cart := e.Group("/cart", authMW)
	cart.GET("", d.Cart.GetCart)
	cart.DELETE("", d.Cart.RemoveCart)
	cart.GET("/items/:productID", d.Cart.GetProductQuantity)
	cart.POST("/items/:productID", d.Cart.AddItem)
	cart.PATCH("/items/:productID", d.Cart.ChangeProductAmount)
	cart.DELETE("/items/:productID", d.Cart.DeleteItem)
	cart.DELETE("/items/:productID/all", d.Cart.RemoveCompleteItem)

	// checkout
	orders := e.Group("/orders", authMW)
	orders.GET("/estimate", d.Order.CheckoutEstimate)
	orders.POST("", d.Order.PlaceOrder)
	orders.GET("", d.Order.ListOrders)
	orders.GET("/:id", d.Order.GetOrder)

	// workshops
	workshops := e.Group("/workshops", authMW)
	workshops.POST("", d.Workshop.Book)
	workshops.GET("", d.Workshop.ListMine)
	workshops.GET("/available", d.Workshop.ListAvailable, artisanOnly)
	workshops.GET("/accepted", d.Workshop.ListAccepted, artisanOnly)
	workshops.POST("/:id/accept", d.Workshop.Accept, artisanOnly)
	workshops.DELETE("/:id", d.Workshop.Remove)

	// custom requests
	requests := e.Group("/requests", authMW)
	requests.POST("", d.Request.Add)
	requests.GET("", d.Request.ListMine)
	requests.GET("/open", d.Request.ListOpen, artisanOnly)
	requests.GET("/:id", d.Request.Get)
	requests.POST("/:id/approve", d.Request.Approve, artisanOnly)
	requests.DELETE("/:id", d.Request.Remove)

	// support tickets
	tickets := e.Group("/tickets", authMW)
	tickets.POST("", d.Ticket.Add)
	tickets.GET("", d.Ticket.List, staff)
	tickets.PATCH("/:id", d.Ticket.UpdateStatus, staff)
	tickets.DELETE("/:id", d.Ticket.Remove, staff)

	// accounts
	users := e.Group("/users", authMW)
	users.GET("/me", d.User.GetMe)
	users.GET("", d.User.ListByRole, adminOnly)
	users.DELETE("/:id", d.User.Delete)
}
