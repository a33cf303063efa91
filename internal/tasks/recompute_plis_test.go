package tasks_test

import (
	"context"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"tpbench/internal/config"
	"tpbench/internal/db"
	"tpbench/internal/models"
	"tpbench/internal/tasks"
	"tpbench/internal/testhelpers"
)

var _ = Describe("HandleRecomputePLIsTask", func() {
	var dbConn *gorm.DB
	var p *tasks.TaskProcessor

	BeforeEach(func() {
		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		dbConn, err = db.InitDB(cfg.DatabaseURL)
		if err != nil {
			Skip("database not available: " + err.Error())
		}

		testhelpers.CleanupDB(dbConn)

		p = tasks.NewTaskProcessor(dbConn, cfg)
	})

	seed := func(cin string, operatingProfit float64) models.Company {
		company := testhelpers.CreateCompany(dbConn, models.Company{CIN: cin})
		testhelpers.CreateFinancialRecord(dbConn, models.FinancialRecord{
			CompanyID:        company.ID,
			Year:             "2023-24",
			Revenue:          100 + operatingProfit,
			OperatingRevenue: 100 + operatingProfit,
			OperatingProfit:  operatingProfit,
			OperatingCost:    100,
			TotalCost:        100,
			TotalAssets:      80,
		})
		return company
	}

	It("derives indicator records from the stored financials", func() {
		company := seed("U72200KA2011PTC000001", 15)

		ctx := context.Background()
		err := p.HandleRecomputePLIsTask(ctx, asynq.NewTask(tasks.TypeTaskRecomputePLIs, []byte("{}")))
		Expect(err).NotTo(HaveOccurred())

		records, err := gorm.G[models.PLIRecord](dbConn).
			Where("company_id = ? AND pli_type = ?", company.ID, "OP_OC").Find(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Year).To(Equal("2023-24"))
		Expect(records[0].Value).To(Equal(15.0))
		Expect(records[0].IsOutlier).To(BeFalse())
	})

	It("replaces stale records on rerun", func() {
		company := seed("U72200KA2011PTC000001", 15)

		ctx := context.Background()
		stale := models.PLIRecord{
			CompanyID: company.ID,
			Year:      "2019-20",
			PLIType:   "OP_OC",
			Value:     99,
		}
		Expect(gorm.G[models.PLIRecord](dbConn, gorm.WithResult()).Create(ctx, &stale)).To(Succeed())

		err := p.HandleRecomputePLIsTask(ctx, asynq.NewTask(tasks.TypeTaskRecomputePLIs, []byte("{}")))
		Expect(err).NotTo(HaveOccurred())

		count, err := gorm.G[models.PLIRecord](dbConn).
			Where("company_id = ? AND year = ?", company.ID, "2019-20").Count(ctx, "id")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("limits the run to one company when asked", func() {
		first := seed("U72200KA2011PTC000001", 15)
		second := seed("U72200KA2011PTC000002", 12)

		ctx := context.Background()
		task, err := tasks.NewRecomputePLIsTask(&first.ID)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.HandleRecomputePLIsTask(ctx, task)).To(Succeed())

		count, err := gorm.G[models.PLIRecord](dbConn).Where("company_id = ?", first.ID).Count(ctx, "id")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).NotTo(BeZero())

		count, err = gorm.G[models.PLIRecord](dbConn).Where("company_id = ?", second.ID).Count(ctx, "id")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("flags values outside the indicator-year fences", func() {
		for i, margin := range []float64{12, 12.5, 13, 13.5, 14, 60} {
			seed("U72200KA2011PTC00000"+string(rune('1'+i)), margin)
		}

		ctx := context.Background()
		Expect(p.HandleRecomputePLIsTask(ctx, asynq.NewTask(tasks.TypeTaskRecomputePLIs, []byte("{}")))).To(Succeed())

		outliers, err := gorm.G[models.PLIRecord](dbConn).
			Where("pli_type = ? AND is_outlier = true", "OP_OC").Find(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(outliers).To(HaveLen(1))
		Expect(outliers[0].Value).To(Equal(60.0))
	})
})
