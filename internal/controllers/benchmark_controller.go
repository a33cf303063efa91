package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tpbench/internal/config"
	"tpbench/internal/models"
	"tpbench/internal/pkg/benchmark"
	"tpbench/internal/pkg/narrative"
	"tpbench/internal/repository"
)

type BenchmarkController struct {
	DB     *gorm.DB
	Config *config.Config
}

// BenchmarkRequest is the body of POST /api/v1/benchmark.
type BenchmarkRequest struct {
	TestedParty benchmark.TestedParty    `json:"tested_party"`
	Criteria    benchmark.SearchCriteria `json:"criteria"`
	PLIType     benchmark.PLIType        `json:"pli_type"`
}

// RunBenchmark executes a full comparability analysis against the stored
// candidate pool and persists the result.
func (bc *BenchmarkController) RunBenchmark(c *gin.Context) {
	ctx := c.Request.Context()

	var req BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.TestedParty.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tested_party.name is required"})
		return
	}
	if !benchmark.KnownPLIType(req.PLIType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown PLI type: " + string(req.PLIType)})
		return
	}
	if !benchmark.KnownFunctionalCategory(req.TestedParty.FunctionalCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown functional category: " + string(req.TestedParty.FunctionalCategory)})
		return
	}

	engine := benchmark.NewEngine(repository.New(bc.DB))
	analysis, err := engine.Analyze(ctx, req.TestedParty, req.Criteria, req.PLIType)
	if err != nil {
		log.Printf("failed to run benchmark: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	usedTokens := bc.generateNarrative(c, analysis)

	payload, err := json.Marshal(analysis)
	if err != nil {
		log.Printf("failed to marshal analysis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	run := models.BenchmarkRun{
		TestedPartyName: req.TestedParty.Name,
		PLIType:         string(req.PLIType),
		UsedTokens:      usedTokens,
		Analysis:        payload,
	}
	if err := gorm.G[models.BenchmarkRun](bc.DB, gorm.WithResult()).Create(ctx, &run); err != nil {
		log.Printf("failed to store benchmark run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       run.ID,
		"analysis": analysis,
	})
}

// generateNarrative replaces the engine's conclusion narrative with a
// generated one when an API key is configured. The engine narrative stands
// when generation is unavailable or fails.
func (bc *BenchmarkController) generateNarrative(c *gin.Context, analysis *benchmark.ComparabilityAnalysis) int64 {
	if bc.Config == nil || bc.Config.OpenAIAPIKey == "" {
		return 0
	}

	generator := narrative.NewGenerator(bc.Config.OpenAIAPIKey)
	text, tokens, err := generator.Generate(c.Request.Context(), analysis)
	if err != nil {
		log.Printf("failed to generate narrative: %v", err)
		return 0
	}

	analysis.Conclusion.Narrative = text
	return tokens
}

// GetBenchmarkRun returns a stored analysis by id.
func (bc *BenchmarkController) GetBenchmarkRun(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	run, err := gorm.G[models.BenchmarkRun](bc.DB).Where("id = ?", id).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Benchmark run not found"})
			return
		}

		log.Printf("failed to get benchmark run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                run.ID,
		"tested_party_name": run.TestedPartyName,
		"pli_type":          run.PLIType,
		"used_tokens":       run.UsedTokens,
		"analysis":          json.RawMessage(run.Analysis),
		"created_at":        run.CreatedAt,
	})
}

// WorkingCapitalRequest is the body of POST /api/v1/benchmark/working-capital.
type WorkingCapitalRequest struct {
	CINs              []string `json:"cins"`
	TestedPartyWCDays float64  `json:"tested_party_wc_days"`
	InterestRate      float64  `json:"interest_rate"`
}

// WorkingCapital computes working-capital adjusted margins for the named
// comparables.
func (bc *BenchmarkController) WorkingCapital(c *gin.Context) {
	ctx := c.Request.Context()

	var req WorkingCapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.CINs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cins is required"})
		return
	}

	repo := repository.New(bc.DB)
	candidates, err := repo.FindByCINs(ctx, req.CINs)
	if err != nil {
		log.Printf("failed to load comparables: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	adjustments := benchmark.CalculateWorkingCapitalAdjustments(candidates, req.TestedPartyWCDays, req.InterestRate)

	c.JSON(http.StatusOK, gin.H{
		"adjustments": adjustments,
	})
}
