package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tpbench/internal/models"
	"tpbench/internal/pkg/benchmark"

	"gorm.io/gorm"
)

// CompanyRepository loads candidate comparables from Postgres and maps them
// into the engine's shape. It pushes the cheap criteria down to SQL; the
// screening engine re-applies the full criteria in memory, so the SQL layer
// only has to return a superset.
type CompanyRepository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

// Search implements benchmark.CandidateRepository.
func (r *CompanyRepository) Search(ctx context.Context, criteria benchmark.SearchCriteria) ([]benchmark.ComparableCompany, error) {
	query := r.DB.WithContext(ctx).Model(&models.Company{})

	if criteria.FunctionalCategory != "" {
		query = query.Where("functional_category = ?", string(criteria.FunctionalCategory))
	}
	if len(criteria.Statuses) > 0 {
		query = query.Where("status IN ?", criteria.Statuses)
	}
	if criteria.MaxRPTPercent > 0 {
		query = query.Where("rpt_percent <= ?", criteria.MaxRPTPercent)
	}
	if criteria.ExcludeLossMakers {
		query = query.Where("persistent_losses = false")
	}

	var companies []models.Company
	if err := query.Order("cin").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}

	out := make([]benchmark.ComparableCompany, 0, len(companies))
	for _, company := range companies {
		candidate, err := r.toCandidate(ctx, company)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate)
	}

	return out, nil
}

// FindByCINs loads specific companies, preserving the candidate shape. Used
// by the standalone working-capital endpoint.
func (r *CompanyRepository) FindByCINs(ctx context.Context, cins []string) ([]benchmark.ComparableCompany, error) {
	var companies []models.Company
	if err := r.DB.WithContext(ctx).Where("cin IN ?", cins).Order("cin").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}

	out := make([]benchmark.ComparableCompany, 0, len(companies))
	for _, company := range companies {
		candidate, err := r.toCandidate(ctx, company)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate)
	}

	return out, nil
}

func (r *CompanyRepository) toCandidate(ctx context.Context, company models.Company) (benchmark.ComparableCompany, error) {
	var records []models.FinancialRecord
	err := r.DB.WithContext(ctx).
		Where("company_id = ?", company.ID).
		Order("year DESC").
		Find(&records).Error
	if err != nil {
		return benchmark.ComparableCompany{}, fmt.Errorf("load financials for %s: %w", company.CIN, err)
	}

	candidate := benchmark.ComparableCompany{
		ID:                 strconv.FormatUint(uint64(company.ID), 10),
		RegistrationNumber: company.CIN,
		Name:               company.Name,
		NICCodes:           splitNICCodes(company.NICCode),
		FunctionalCategory: benchmark.FunctionalCategory(company.FunctionalCategory),
		Status:             company.Status,
		DataQualityScore:   company.DataQualityScore,
		RPTPercent:         company.RPTPercent,
		PersistentLosses:   company.PersistentLosses,
	}

	for _, rec := range records {
		fin := toFinancials(rec)
		candidate.Financials = append(candidate.Financials, fin)
		candidate.PLIs = append(candidate.PLIs, benchmark.CalculatePLIs(fin)...)
	}

	return candidate, nil
}

func toFinancials(rec models.FinancialRecord) benchmark.Financials {
	return benchmark.Financials{
		Year:             rec.Year,
		Revenue:          rec.Revenue,
		OperatingRevenue: rec.OperatingRevenue,
		GrossProfit:      rec.GrossProfit,
		OperatingProfit:  rec.OperatingProfit,
		NetProfit:        rec.NetProfit,
		OperatingCost:    rec.OperatingCost,
		TotalCost:        rec.TotalCost,
		TotalAssets:      rec.TotalAssets,
		Receivables:      rec.Receivables,
		Payables:         rec.Payables,
		Inventory:        rec.Inventory,
		CapitalEmployed:  rec.CapitalEmployed,
		EmployeeCost:     rec.EmployeeCost,
		Depreciation:     rec.Depreciation,
	}
}

// splitNICCodes handles the comma-separated column format.
func splitNICCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
