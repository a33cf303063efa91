package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"tpbench/internal/config"
	"tpbench/internal/models"
	"tpbench/internal/pkg/benchmark"
	"tpbench/internal/pkg/registry"
	"tpbench/internal/pkg/xbrl"
)

// TaskProcessor holds dependencies for our task handlers
type TaskProcessor struct {
	DB             *gorm.DB
	config         *config.Config
	registryClient *registry.Client
}

// NewTaskProcessor creates a new TaskProcessor
func NewTaskProcessor(db *gorm.DB, config *config.Config) *TaskProcessor {
	return &TaskProcessor{
		DB:             db,
		config:         config,
		registryClient: registry.New(config.RegistryAPIKey),
	}
}

// HandleImportFilingsTask lists recent statement filings at the registry,
// downloads the ones we have not stored yet and imports their figures into
// companies and financial records.
func (p *TaskProcessor) HandleImportFilingsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Importing filings")

	var payload ImportFilingsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	filings, err := p.listFilings(payload)
	if err != nil {
		log.Printf("failed to list filings: %v", err)
		return nil
	}

	for _, filing := range filings {
		count, err := gorm.G[models.Filing](p.DB).Where("filing_number = ?", filing.FilingNumber).Count(ctx, "id")
		if err != nil {
			return err
		}

		if count > 0 {
			log.Printf("filing already exists: %s", filing.FilingNumber)
			continue
		}

		rawDocument, err := p.registryClient.GetDocument(filing.FilingNumber)
		if err != nil {
			if errors.Is(err, registry.ErrDocumentNotFound) {
				log.Printf("document missing for filing %s", filing.FilingNumber)
				continue
			}
			log.Printf("failed to get document: %v", err)
			return err
		}

		statement, err := xbrl.ParseStatement([]byte(rawDocument))
		if err != nil {
			log.Printf("failed to parse filing %s: %v", filing.FilingNumber, err)
			continue
		}

		parsed, err := json.Marshal(statement)
		if err != nil {
			return err
		}

		record := models.Filing{
			FilingNumber: filing.FilingNumber,
			CIN:          filing.CIN,
			BlobData:     []byte(rawDocument),
			BlobSize:     len(rawDocument),
			JSONData:     parsed,
		}

		if err := gorm.G[models.Filing](p.DB, gorm.WithResult()).Create(ctx, &record); err != nil {
			return err
		}

		if err := p.importStatement(ctx, filing, statement); err != nil {
			return err
		}

		log.Printf("stored filing: %s, %s, %d", record.FilingNumber, record.CIN, record.BlobSize)
	}

	log.Println("Filings imported successfully")

	return nil
}

func (p *TaskProcessor) listFilings(payload ImportFilingsPayload) ([]registry.Filing, error) {
	if payload.Days != nil {
		today := time.Now()
		period := registry.Period{
			StartDate: today.AddDate(0, 0, -*payload.Days),
			EndDate:   today,
		}
		filings, err := p.registryClient.GetRecentFilings(period)
		if err != nil {
			return nil, err
		}
		return filterFilings(filings, payload.CIN), nil
	}

	filings, err := p.registryClient.GetRecentFilings()
	if err != nil {
		return nil, err
	}
	return filterFilings(filings, payload.CIN), nil
}

func filterFilings(filings []registry.Filing, cin *string) []registry.Filing {
	if cin == nil {
		return filings
	}

	var out []registry.Filing
	for _, f := range filings {
		if f.CIN == *cin {
			out = append(out, f)
		}
	}
	return out
}

// importStatement upserts the filing company and one financial record per
// statement year. Years already imported stay untouched.
func (p *TaskProcessor) importStatement(ctx context.Context, filing registry.Filing, statement *xbrl.Statement) error {
	company, err := gorm.G[models.Company](p.DB).Where("cin = ?", filing.CIN).First(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		company = models.Company{
			CIN:    filing.CIN,
			Name:   statement.CompanyName,
			Status: "ACTIVE",
		}
		if err := gorm.G[models.Company](p.DB, gorm.WithResult()).Create(ctx, &company); err != nil {
			return err
		}
	}

	for _, year := range statement.Years {
		count, err := gorm.G[models.FinancialRecord](p.DB).
			Where("company_id = ? AND year = ?", company.ID, year.Year).Count(ctx, "id")
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		record := models.FinancialRecord{
			CompanyID:        company.ID,
			Year:             year.Year,
			Revenue:          year.Figures.Revenue,
			OperatingRevenue: year.Figures.OperatingRevenue,
			GrossProfit:      year.Figures.GrossProfit,
			OperatingProfit:  year.Figures.OperatingProfit,
			NetProfit:        year.Figures.NetProfit,
			OperatingCost:    year.Figures.OperatingCost,
			TotalCost:        year.Figures.TotalCost,
			TotalAssets:      year.Figures.TotalAssets,
			Receivables:      year.Figures.Receivables,
			Payables:         year.Figures.Payables,
			Inventory:        year.Figures.Inventory,
			CapitalEmployed:  year.Figures.CapitalEmployed,
			EmployeeCost:     year.Figures.EmployeeCost,
			Depreciation:     year.Figures.Depreciation,
		}
		if err := gorm.G[models.FinancialRecord](p.DB, gorm.WithResult()).Create(ctx, &record); err != nil {
			return err
		}
	}

	return nil
}

// HandleRecomputePLIsTask rebuilds the derived profit level indicators from
// the stored financial records. Outlier flags are set per indicator and year
// against the Tukey fences of the cross-company distribution.
func (p *TaskProcessor) HandleRecomputePLIsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Recomputing PLIs")

	var payload RecomputePLIsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	var companies []models.Company
	var err error
	if payload.CompanyID != nil {
		companies, err = gorm.G[models.Company](p.DB).Where("id = ?", *payload.CompanyID).Find(ctx)
	} else {
		companies, err = gorm.G[models.Company](p.DB).Find(ctx)
	}
	if err != nil {
		return err
	}

	var fresh []models.PLIRecord
	for _, company := range companies {
		records, err := gorm.G[models.FinancialRecord](p.DB).
			Where("company_id = ?", company.ID).Order("year DESC").Find(ctx)
		if err != nil {
			return err
		}

		for _, record := range records {
			for _, pli := range benchmark.CalculatePLIs(toFinancials(record)) {
				fresh = append(fresh, models.PLIRecord{
					CompanyID: company.ID,
					Year:      record.Year,
					PLIType:   string(pli.Type),
					Value:     pli.Value,
				})
			}
		}

		if _, err := gorm.G[models.PLIRecord](p.DB).Where("company_id = ?", company.ID).Delete(ctx); err != nil {
			return err
		}
	}

	flagOutliers(fresh)

	for i := range fresh {
		if err := gorm.G[models.PLIRecord](p.DB, gorm.WithResult()).Create(ctx, &fresh[i]); err != nil {
			return err
		}
	}

	log.Printf("Recomputed %d PLI records for %d companies", len(fresh), len(companies))

	return nil
}

// flagOutliers marks values outside the interquartile fences of their
// indicator-year group.
func flagOutliers(records []models.PLIRecord) {
	groups := make(map[string][]float64)
	for _, r := range records {
		key := r.PLIType + "|" + r.Year
		groups[key] = append(groups[key], r.Value)
	}

	fences := make(map[string][2]float64, len(groups))
	for key, values := range groups {
		if len(values) < 4 {
			continue
		}
		stats := benchmark.ComputeBenchmarkingSet(values, benchmark.PLIType(""), nil).Statistics
		fences[key] = [2]float64{stats.LowerFence, stats.UpperFence}
	}

	for i := range records {
		key := records[i].PLIType + "|" + records[i].Year
		bounds, ok := fences[key]
		if !ok {
			continue
		}
		records[i].IsOutlier = records[i].Value < bounds[0] || records[i].Value > bounds[1]
	}
}

func toFinancials(r models.FinancialRecord) benchmark.Financials {
	return benchmark.Financials{
		Year:             r.Year,
		Revenue:          r.Revenue,
		OperatingRevenue: r.OperatingRevenue,
		GrossProfit:      r.GrossProfit,
		OperatingProfit:  r.OperatingProfit,
		NetProfit:        r.NetProfit,
		OperatingCost:    r.OperatingCost,
		TotalCost:        r.TotalCost,
		TotalAssets:      r.TotalAssets,
		Receivables:      r.Receivables,
		Payables:         r.Payables,
		Inventory:        r.Inventory,
		CapitalEmployed:  r.CapitalEmployed,
		EmployeeCost:     r.EmployeeCost,
		Depreciation:     r.Depreciation,
	}
}

func (p *TaskProcessor) GetRegistryClient() *registry.Client {
	return p.registryClient
}
