package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pv-pipeline/internal/api/handlers"
	"pv-pipeline/internal/api/middleware"
	"pv-pipeline/internal/data"
	"pv-pipeline/internal/logger"
)

func main() {
	// A .env file, if present, seeds the environment before viper reads it.
	_ = godotenv.Load()

	if err := loadConfig(); err != nil {
		// Config file is optional; defaults + env cover the common case.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Sprintf("error reading config: %v", err))
		}
	}

	log := logger.Get(viper.GetString("log_level"))

	if viper.GetString("env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS(viper.GetStringSlice("cors_origins")))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	cache := data.NewBundleCache()
	bundleHandler := handlers.NewBundleHandler(cache)
	analysisHandler := handlers.NewAnalysisHandler(bundleHandler)
	projectsHandler := handlers.NewProjectsHandler(viper.GetString("projects_dir"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/projects", projectsHandler.ListProjects)

		api.POST("/bundles", bundleHandler.BuildBundle)
		api.GET("/bundles/:id", bundleHandler.GetBundle)
		api.GET("/bundles/:id/stats", bundleHandler.GetStats)
		api.GET("/bundles/:id/aggregate", bundleHandler.GetAggregate)
		api.GET("/bundles/:id/export.xlsx", bundleHandler.ExportXLSX)

		api.POST("/analysis/selfconsumption", analysisHandler.SelfConsumption)
		api.POST("/analysis/storage", analysisHandler.Storage)
	}

	addr := fmt.Sprintf(":%s", viper.GetString("port"))
	log.Infow("starting API server", "addr", addr, "projects_dir", viper.GetString("projects_dir"))
	if err := router.Run(addr); err != nil {
		log.Fatalw("server stopped", "err", err)
	}
}

func loadConfig() error {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", logger.InfoLevel)
	viper.SetDefault("projects_dir", data.DefaultProjectsDir())

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}
