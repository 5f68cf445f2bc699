package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/config"
	"github.com/QmazProject/Asset-Management-System/internal/database"
	"github.com/QmazProject/Asset-Management-System/internal/handler"
	"github.com/QmazProject/Asset-Management-System/internal/middleware"
	"github.com/QmazProject/Asset-Management-System/internal/queue"
	"github.com/QmazProject/Asset-Management-System/internal/repository"
	"github.com/QmazProject/Asset-Management-System/internal/router"
	"github.com/QmazProject/Asset-Management-System/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	store, err := storage.NewClientFromEnv()
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	assets := repository.NewAssetRepo(db)
	services := repository.NewAssetServiceRepo(db)
	templates := repository.NewTemplateRepo(db)
	assetAtt := repository.NewAssetAttachmentRepo(db)
	templateAtt := repository.NewTemplateAttachmentRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	assetH := handler.NewAssetHandler(assets, services, assetAtt)
	attachH := handler.NewAttachmentHandler(cfg, assets, templates, assetAtt, templateAtt, store)
	serviceH := handler.NewServiceHandler(assets, services, templates)
	templateH := handler.NewTemplateHandler(cfg, templates, templateAtt, store)

	e := echo.New()
	e.HideBanner = true

	// Redis backs the response cache and the rate limiter; both degrade
	// to pass-through when Redis is unavailable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	listCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAssets(e, assetH, attachH, serviceH, cfg.JWTSecret, listCache)
	router.RegisterAdministration(e, templateH, attachH, cfg.JWTSecret, listCache)

	// Background consumer for assignment events. Runs its own reconnect
	// loop for the life of the process.
	go func() {
		if err := queue.StartServiceConsumer(); err != nil {
			log.Printf("service consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
