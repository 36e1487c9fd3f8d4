package server

import (
	"net/http"
	"time"

	httpHandler "youtube-analytics/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	searchHandler httpHandler.ISearchHandler,
	videoHandler httpHandler.IVideoHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")

	api.POST("/search", searchHandler.StartSearch)
	api.POST("/search/cancel", searchHandler.CancelSearch)
	api.GET("/search/status", searchHandler.SearchStatus)
	api.GET("/search/results", searchHandler.SearchResults)
	api.GET("/quota", searchHandler.QuotaStatus)
	api.POST("/quota/reset", searchHandler.ResetQuota)

	api.POST("/credential", searchHandler.SaveCredential)
	api.POST("/credential/validate", searchHandler.ValidateCredential)
	api.DELETE("/credential", searchHandler.DeleteCredential)

	api.GET("/videos", videoHandler.GetVideosByKeyword)
	api.GET("/videos/all", videoHandler.GetAllVideos)
	api.GET("/history", videoHandler.GetSearchHistory)
	api.GET("/history/popular", videoHandler.GetPopularKeywords)
	api.GET("/stats", videoHandler.GetStats)
	api.POST("/export", videoHandler.Export)

	return router
}
