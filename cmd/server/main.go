package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"medicare/internal/clinic"
	"medicare/internal/config"
	"medicare/internal/handler"
	"medicare/internal/middleware"
	"medicare/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	// database
	pc, err := cfg.PoolConfig()
	if err != nil {
		log.Fatalf("db config: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), pc)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	log.Println("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Printf("migration file not found, skipping: %v", err)
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		log.Printf("migration warning: %v", err)
	} else {
		log.Println("migration applied")
	}

	st := store.New(pool)
	svc := clinic.New(st)
	h := handler.New(svc, cfg.SessionSecret)

	r := gin.Default()
	r.LoadHTMLGlob("web/templates/*.html")
	r.Use(middleware.Session(svc, cfg.SessionSecret))

	rl := middleware.NewRateLimiter(5, 10)

	r.GET("/", h.Index)
	r.POST("/login", middleware.RateLimit(rl), h.Login)
	r.POST("/signup", middleware.RateLimit(rl), h.Signup)
	r.GET("/logout", h.Logout)
	r.GET("/debug-db", h.DebugDB)

	authed := r.Group("/", h.RequireLogin())
	{
		authed.POST("/book_appointment", h.BookAppointment)
		authed.POST("/cancel_appointment/:id", h.CancelAppointment)
		authed.POST("/complete_appointment/:id", h.CompleteAppointment)
	}

	r.NoRoute(h.Fallback)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Printf("http on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")
	srv.Close()
}
