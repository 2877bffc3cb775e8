package router

import (
	"github.com/gin-gonic/gin"

	"axiom/internal/handler"
	"axiom/internal/service"
)

func SetupRouter(svcCtx *service.ServiceContext) *gin.Engine {
	r := gin.Default()

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	healthHandler := handler.NewHealthHandler()
	equilibriumHandler := handler.NewEquilibriumHandler()
	strategyHandler := handler.NewStrategyHandler()
	tournamentHandler := handler.NewTournamentHandler()
	experimentHandler := handler.NewExperimentHandler(svcCtx.Experiments, svcCtx.Executor)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		equilibrium := api.Group("/equilibrium")
		{
			equilibrium.POST("", equilibriumHandler.ComputeEquilibrium)
			equilibrium.POST("/expected-payoff", equilibriumHandler.ExpectedPayoff)
		}

		strategies := api.Group("/strategies")
		{
			strategies.GET("", strategyHandler.ListStrategies)
			strategies.POST("/:name/play", strategyHandler.PlayStrategy)
			strategies.POST("/:name/analyze", strategyHandler.AnalyzeStrategy)
		}

		api.POST("/tournament", tournamentHandler.RunTournament)

		experiments := api.Group("/experiments")
		{
			experiments.POST("", experimentHandler.CreateExperiment)
			experiments.GET("", experimentHandler.ListExperiments)
			experiments.GET("/:id", experimentHandler.GetExperiment)
			experiments.PUT("/:id", experimentHandler.UpdateExperiment)
			experiments.DELETE("/:id", experimentHandler.DeleteExperiment)
			experiments.POST("/:id/execute", experimentHandler.ExecuteAll)
			experiments.GET("/:id/analysis", experimentHandler.AnalyzeExperiment)
			experiments.POST("/:id/runs", experimentHandler.CreateRuns)
			experiments.GET("/:id/runs", experimentHandler.ListRuns)
			experiments.GET("/:id/runs/:run_id", experimentHandler.GetRun)
			experiments.POST("/:id/runs/:run_id/execute", experimentHandler.ExecuteRun)
		}
	}

	return r
}
