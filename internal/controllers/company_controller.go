package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tpbench/internal/models"
)

type CompanyController struct {
	DB *gorm.DB
}

// GetCompanies returns the stored candidate companies, optionally filtered
// by a name or CIN fragment.
func (cc *CompanyController) GetCompanies(c *gin.Context) {
	ctx := c.Request.Context()
	limit := getLimitWithDefault(c, 100)

	var companies []models.Company
	var err error
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		companies, err = gorm.G[models.Company](cc.DB).
			Where("name ILIKE ? OR cin ILIKE ?", pattern, pattern).
			Order("name").Limit(limit).Find(ctx)
	} else {
		companies, err = gorm.G[models.Company](cc.DB).Order("name").Limit(limit).Find(ctx)
	}
	if err != nil {
		log.Printf("failed to get companies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
	})
}

// GetCompanyFinancials returns every stored statement year for one company.
func (cc *CompanyController) GetCompanyFinancials(c *gin.Context) {
	ctx := c.Request.Context()
	cin := c.Param("cin")

	company, err := gorm.G[models.Company](cc.DB).Where("cin = ?", cin).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}

		log.Printf("failed to get company: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	records, err := gorm.G[models.FinancialRecord](cc.DB).
		Where("company_id = ?", company.ID).Order("year DESC").Find(ctx)
	if err != nil {
		log.Printf("failed to get financial records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":    company,
		"financials": records,
	})
}

func getLimitWithDefault(c *gin.Context, defaultValue int) int {
	var err error
	limit := defaultValue
	if c.Query("limit") != "" {
		limit, err = strconv.Atoi(c.Query("limit"))
		if err != nil {
			log.Printf("failed to parse limit: %v, using default value: %d", err, defaultValue)
			return defaultValue
		}
	}
	return limit
}
