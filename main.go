// file: main.go
package main

import (
	"log"

	"NovaCTF/config"
	"NovaCTF/controllers"
	"NovaCTF/database"
	"NovaCTF/routes"
	"NovaCTF/services"
	"NovaCTF/utils"
)

func main() {
	cfg := config.Load()
	utils.SetJWTSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection successfully established and connection pool configured.")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb == nil {
		log.Println("Redis disabled, leaderboard/activity served without cache")
	} else {
		log.Println("Redis connection successfully established.")
	}

	badgeSvc := services.NewBadgeService(db)
	scoringSvc := services.NewScoringService(db, rdb, badgeSvc)
	boardSvc := services.NewLeaderboardService(db, rdb)
	activitySvc := services.NewActivityService(db, rdb)

	r := routes.SetupRouter(routes.Controllers{
		Users:      controllers.NewUserController(db, rdb, badgeSvc, boardSvc),
		Challenges: controllers.NewChallengeController(db, rdb, scoringSvc),
		Scoreboard: controllers.NewScoreboardController(boardSvc, activitySvc),
		Records:    controllers.NewRecordController(db),
	})

	log.Println("Starting server on " + cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
