package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vparts/cart"
	"vparts/chats"
	"vparts/checkout"
	"vparts/ratelim"
	"vparts/razorpay"
	"vparts/rdx"
	"vparts/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rateLimiter := ratelim.NewRateLimiter()

	hub := chats.NewHub()
	go hub.Run()

	// Cart store with Redis-backed session snapshots.
	carts := cart.NewStore(cart.NewRedisSnapshots())
	cartHandler := cart.NewHandler(carts)

	// Payment provider. PAYMENT_FLOW selects the modal flow (client
	// drives the embedded checkout) or the hosted redirect flow.
	rzpClient := razorpay.NewClient()
	publisher := razorpay.NewRedisPublisher(rdx.Conn)
	modal := razorpay.NewCheckoutGateway(rzpClient, publisher)
	hosted := razorpay.NewHostedGateway(rzpClient, publisher, os.Getenv("PAYMENT_RETURN_URL"))

	var gateway checkout.Gateway = modal
	if os.Getenv("PAYMENT_FLOW") == "hosted" {
		gateway = hosted
	}

	orchestrator := checkout.NewOrchestrator(
		carts,
		checkout.NewMongoOrderStore(),
		checkout.NewMongoUserDirectory(),
		gateway,
	)
	checkoutHandler := &checkout.Handler{
		Orchestrator: orchestrator,
		Modal:        modal,
		Hosted:       hosted,
		Pending:      publisher,
	}

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddProductRoutes(router, rateLimiter)
	routes.AddCatalogRoutes(router, rateLimiter)
	routes.AddCartRoutes(router, rateLimiter, cartHandler)
	routes.AddCheckoutRoutes(router, rateLimiter, checkoutHandler)
	routes.AddOrderRoutes(router, rateLimiter)
	routes.AddReviewRoutes(router, rateLimiter)
	routes.AddChatRoutes(router, rateLimiter, hub)
	routes.AddNotificationRoutes(router, rateLimiter)

	router.ServeFiles("/static/*filepath", http.Dir("static"))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	// WriteTimeout stays unset: place-order requests for online payments
	// are held open until the provider callback resolves them.
	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down chat hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
