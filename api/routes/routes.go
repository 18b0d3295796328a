package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tenkey-events/raffle-backend/internal/config"
	"github.com/tenkey-events/raffle-backend/internal/handlers"
	"github.com/tenkey-events/raffle-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router needs.
type HandlerDependencies struct {
	ParticipantHandler *handlers.ParticipantHandler
	PrizeHandler       *handlers.PrizeHandler
	RaffleHandler      *handlers.RaffleHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		participants := api.Group("/participants")
		{
			participants.GET("", deps.ParticipantHandler.GetParticipants)
			participants.PUT("", deps.ParticipantHandler.ImportParticipants)
			participants.DELETE("", deps.ParticipantHandler.DeleteParticipants)

			cancels := participants.Group("/cancels")
			{
				cancels.GET("/all", deps.ParticipantHandler.GetCancellations)
				cancels.DELETE("/all", deps.ParticipantHandler.DeleteCancellations)
				cancels.PUT("/edit", deps.ParticipantHandler.AddCancellations)
				cancels.DELETE("/edit", deps.ParticipantHandler.RemoveCancellations)
			}
		}

		prizes := api.Group("/prizes")
		{
			prizes.GET("", deps.PrizeHandler.GetPrizes)
			prizes.PUT("", deps.PrizeHandler.ImportPrizes)
			prizes.DELETE("", deps.PrizeHandler.DeletePrizes)
			prizes.GET("/:id/group", deps.PrizeHandler.GetPrizeGroup)
		}

		mappings := api.Group("/mappings")
		{
			mappings.GET("", deps.RaffleHandler.GetMappings)
			mappings.DELETE("", deps.RaffleHandler.DeleteMappings)
		}

		raffle := api.Group("/raffle")
		{
			raffle.GET("/next", deps.RaffleHandler.GetNextDraw)
			raffle.POST("/set", deps.RaffleHandler.SetWinner)
			raffle.PUT("/set", deps.RaffleHandler.OverwriteWinner)
			raffle.DELETE("/set", deps.RaffleHandler.DeleteWinner)
		}
	}

	return router
}
