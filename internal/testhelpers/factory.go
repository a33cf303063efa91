package testhelpers

import (
	"fmt"

	g "github.com/onsi/gomega"
	"gorm.io/gorm"

	"tpbench/internal/models"
)

// CleanupDB truncates every table in the public schema so specs start from
// an empty database.
func CleanupDB(db *gorm.DB) {
	var tables []string

	err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error
	g.Expect(err).NotTo(g.HaveOccurred())

	for _, table := range tables {
		if table == "schema_migrations" {
			continue
		}

		err := db.Exec(fmt.Sprintf("TRUNCATE TABLE \"%s\" RESTART IDENTITY CASCADE", table)).Error
		g.Expect(err).NotTo(g.HaveOccurred(), "Failed to truncate table: "+table)
	}
}

// CreateCompany persists a company with sensible defaults, overridden by the
// fields already set on the argument.
func CreateCompany(db *gorm.DB, company models.Company) models.Company {
	if company.CIN == "" {
		company.CIN = fmt.Sprintf("U72200KA2011PTC%06d", company.ID)
	}
	if company.Name == "" {
		company.Name = "Company " + company.CIN
	}
	if company.NICCode == "" {
		company.NICCode = "62011"
	}
	if company.FunctionalCategory == "" {
		company.FunctionalCategory = "IT_SERVICES_PROVIDER"
	}
	if company.Status == "" {
		company.Status = "ACTIVE"
	}
	if company.DataQualityScore == 0 {
		company.DataQualityScore = 90
	}

	err := db.Create(&company).Error
	g.Expect(err).NotTo(g.HaveOccurred())
	return company
}

// CreateFinancialRecord persists one statement year for a company.
func CreateFinancialRecord(db *gorm.DB, record models.FinancialRecord) models.FinancialRecord {
	if record.Year == "" {
		record.Year = "2023-24"
	}

	err := db.Create(&record).Error
	g.Expect(err).NotTo(g.HaveOccurred())
	return record
}
