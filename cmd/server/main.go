package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"todoapp/internal/config"
	"todoapp/internal/database"
	"todoapp/internal/handler"
	"todoapp/internal/repository"
	"todoapp/internal/router"
	"todoapp/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBTLS)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate database: %v", err)
	}
	cancel()

	// Sessions live in Redis when it is reachable, otherwise in MySQL.
	var store session.Store
	if rdb := config.NewRedisClient(); rdb != nil {
		store = session.NewRedisStore(rdb, cfg.SessionSecret)
		log.Printf("sessions: redis store")
	} else {
		store = session.NewDBStore(db, cfg.SessionSecret)
		log.Printf("sessions: database store (redis unavailable)")
	}

	users := repository.NewUserRepo(db, cfg.BcryptCost)
	categories := repository.NewCategoryRepo(db)
	tasks := repository.NewTaskRepo(db)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e,
		handler.NewAuthHandler(cfg, users, store),
		handler.NewCategoryHandler(categories),
		handler.NewTaskHandler(tasks),
		store)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
