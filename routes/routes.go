package routes

import (
	"vparts/auth"
	"vparts/cart"
	"vparts/catalog"
	"vparts/chats"
	"vparts/checkout"
	"vparts/middleware"
	"vparts/notifications"
	"vparts/orders"
	"vparts/products"
	"vparts/ratelim"
	"vparts/reviews"

	"github.com/julienschmidt/httprouter"
)

// AddAuthRoutes wires account handlers to the router.
func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/refresh", rateLimiter.Limit(auth.RefreshToken))
	router.POST("/api/auth/logout",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.LogoutUser))

	router.GET("/api/profile",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.GetProfile))
	router.POST("/api/profile/addresses",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("buyer"),
		)(auth.AddAddress))
	router.DELETE("/api/profile/addresses/:addressid",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("buyer"),
		)(auth.DeleteAddress))
	router.POST("/api/profile/push-tokens",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.RegisterPushToken))
}

// AddProductRoutes wires the catalog browse and vendor listing
// handlers.
func AddProductRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/products", rateLimiter.Limit(products.GetProducts))
	router.GET("/api/products/:productid", rateLimiter.Limit(products.GetProduct))

	router.POST("/api/vendor/products",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("vendor"),
		)(products.CreateProduct))
	router.GET("/api/vendor/products",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("vendor"),
		)(products.GetVendorProducts))
	router.PUT("/api/vendor/products/:productid",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("vendor"),
		)(products.EditProduct))
	router.DELETE("/api/vendor/products/:productid",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("vendor"),
		)(products.DeleteProduct))
}

// AddCatalogRoutes wires categories and bike models.
func AddCatalogRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/categories", rateLimiter.Limit(catalog.GetCategories))
	router.GET("/api/bike-models", rateLimiter.Limit(catalog.GetBikeModels))

	router.POST("/api/categories",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(catalog.CreateCategory))
	router.POST("/api/bike-models",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(catalog.CreateBikeModel))
}

// AddCartRoutes wires the cart handlers. Buyer only.
func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, h *cart.Handler) {
	buyer := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("buyer"),
	)

	router.GET("/api/cart", buyer(h.GetCart))
	router.POST("/api/cart/items", buyer(h.AddToCart))
	router.PUT("/api/cart/items/:productid", buyer(h.UpdateCartItem))
	router.DELETE("/api/cart/items/:productid", buyer(h.RemoveFromCart))
	router.DELETE("/api/cart", buyer(h.ClearCart))
}

// AddCheckoutRoutes wires order placement and the payment provider
// callbacks.
func AddCheckoutRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, h *checkout.Handler) {
	buyer := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("buyer"),
	)

	router.POST("/api/checkout/place-order", buyer(h.PlaceOrder))
	router.GET("/api/checkout/pending", buyer(h.PendingCheckout))
	router.POST("/api/checkout/confirm", buyer(h.ConfirmPayment))
	router.POST("/api/checkout/cancel", buyer(h.CancelPayment))
	router.POST("/api/checkout/return", buyer(h.PaymentReturn))
}

// AddOrderRoutes wires buyer and vendor order views.
func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/orders",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("buyer"),
		)(orders.GetBuyerOrders))
	router.GET("/api/orders/:orderid", authed(orders.GetOrder))
	router.GET("/api/orders/:orderid/invoice",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("buyer"),
		)(orders.PrintInvoice))
	router.POST("/api/orders/:orderid/cancel",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("buyer"),
		)(orders.CancelOrder))

	router.GET("/api/vendor/orders",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("vendor"),
		)(orders.GetVendorOrders))
	router.PUT("/api/vendor/orders/:orderid/status",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("vendor"),
		)(orders.UpdateOrderStatus))
}

// AddReviewRoutes wires product reviews.
func AddReviewRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/products/:productid/reviews", rateLimiter.Limit(reviews.GetReviews))
	router.POST("/api/products/:productid/reviews",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("buyer"),
		)(reviews.AddReview))
	router.DELETE("/api/reviews/:reviewid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(reviews.DeleteReview))
}

// AddChatRoutes wires buyer-vendor messaging, REST plus websocket.
func AddChatRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *chats.Hub) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.POST("/api/chats", authed(chats.StartConversation))
	router.GET("/api/chats", authed(chats.GetConversations))
	router.GET("/api/chats/:conversationid/messages", authed(chats.GetMessages))
	router.POST("/api/chats/:conversationid/messages", authed(chats.SendMessage(hub)))

	// Token arrives in the query string; the handler authenticates.
	router.GET("/ws/chats/:conversationid", chats.WebSocketHandler(hub))
}

// AddNotificationRoutes wires per-user notifications.
func AddNotificationRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/notifications", authed(notifications.GetNotifications))
	router.POST("/api/notifications/read-all", authed(notifications.MarkAllRead))
	router.PUT("/api/notifications/:notificationid/read", authed(notifications.MarkRead))
}
