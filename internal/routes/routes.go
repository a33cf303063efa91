package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tpbench/internal/config"
	"tpbench/internal/controllers"
)

// SetupRouter initializes all services, controllers, and API routes
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	companyController := controllers.CompanyController{DB: db}
	benchmarkController := controllers.BenchmarkController{DB: db, Config: cfg}

	// Set up Gin router
	router := gin.Default()

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	// Group API routes under /api/v1
	api := router.Group("/api/v1")
	{
		companies := api.Group("/companies")
		{
			// GET /api/v1/companies
			companies.GET("", companyController.GetCompanies)
			// GET /api/v1/companies/:cin/financials
			companies.GET("/:cin/financials", companyController.GetCompanyFinancials)
		}

		bench := api.Group("/benchmark")
		{
			// POST /api/v1/benchmark runs a full comparability analysis
			bench.POST("", benchmarkController.RunBenchmark)
			// GET /api/v1/benchmark/:id returns a stored run
			bench.GET("/:id", benchmarkController.GetBenchmarkRun)
			// POST /api/v1/benchmark/working-capital
			bench.POST("/working-capital", benchmarkController.WorkingCapital)
		}
	}

	return router
}
