package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"gridsolve/internal/api/handlers"
	"gridsolve/internal/api/middleware"
	"gridsolve/internal/archive"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Optional run archive; without it /runs endpoints report 503.
	var arc *archive.Archive
	if path := os.Getenv("ARCHIVE_PATH"); path != "" {
		var err error
		arc, err = archive.Open(path)
		if err != nil {
			log.Fatalf("open archive %s: %v", path, err)
		}
		defer arc.Close()
		log.Printf("Run archive at %s", path)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	solveHandler := handlers.NewSolveHandler(arc)
	runsHandler := handlers.NewRunsHandler(arc)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/solve", solveHandler.RunSolve)
		api.GET("/runs", runsHandler.ListRuns)
		api.GET("/runs/:id", runsHandler.GetRun)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
