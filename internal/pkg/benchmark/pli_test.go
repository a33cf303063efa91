package benchmark_test

import (
	"tpbench/internal/pkg/benchmark"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func pliByType(plis []benchmark.PLIValue, t benchmark.PLIType) (benchmark.PLIValue, bool) {
	for _, p := range plis {
		if p.Type == t {
			return p, true
		}
	}
	return benchmark.PLIValue{}, false
}

var _ = Describe("CalculatePLIs", func() {
	It("computes OP_OC from operating profit and cost", func() {
		plis := benchmark.CalculatePLIs(benchmark.Financials{
			Year:            "2023-24",
			OperatingProfit: 60,
			OperatingCost:   400,
		})

		p, ok := pliByType(plis, benchmark.PLIOperatingProfitOperatingCost)
		Expect(ok).To(BeTrue())
		Expect(p.Value).To(BeNumerically("~", 15.00, 1e-9))
		Expect(p.Year).To(Equal("2023-24"))
	})

	It("computes every indicator when all denominators are positive", func() {
		plis := benchmark.CalculatePLIs(benchmark.Financials{
			Year:             "2023-24",
			Revenue:          1000,
			OperatingRevenue: 980,
			GrossProfit:      400,
			OperatingProfit:  120,
			OperatingCost:    860,
			TotalCost:        900,
			TotalAssets:      800,
			CapitalEmployed:  600,
		})

		Expect(plis).To(HaveLen(7))

		gp, _ := pliByType(plis, benchmark.PLIGrossProfitSales)
		Expect(gp.Value).To(BeNumerically("~", 40.0, 1e-9))

		roce, _ := pliByType(plis, benchmark.PLIReturnOnCapitalEmployed)
		Expect(roce.Value).To(BeNumerically("~", 20.0, 1e-9))
	})

	It("omits indicators whose denominator is not positive", func() {
		plis := benchmark.CalculatePLIs(benchmark.Financials{
			Year:            "2023-24",
			OperatingProfit: 60,
			OperatingCost:   400,
			// revenue, total cost, assets, capital employed all zero
		})

		_, hasSales := pliByType(plis, benchmark.PLIGrossProfitSales)
		Expect(hasSales).To(BeFalse())
		_, hasROA := pliByType(plis, benchmark.PLIReturnOnAssets)
		Expect(hasROA).To(BeFalse())
		_, hasROCE := pliByType(plis, benchmark.PLIReturnOnCapitalEmployed)
		Expect(hasROCE).To(BeFalse())
	})

	It("computes the Berry ratio as a plain ratio over operating expenses", func() {
		// operatingExpenses = 860 - 400 + 120 = 580
		plis := benchmark.CalculatePLIs(benchmark.Financials{
			Year:            "2023-24",
			GrossProfit:     400,
			OperatingProfit: 120,
			OperatingCost:   860,
		})

		berry, ok := pliByType(plis, benchmark.PLIBerryRatio)
		Expect(ok).To(BeTrue())
		Expect(berry.Value).To(BeNumerically("~", 400.0/580.0, 1e-9))
	})

	It("omits the Berry ratio when gross profit is not positive", func() {
		plis := benchmark.CalculatePLIs(benchmark.Financials{
			Year:            "2023-24",
			GrossProfit:     0,
			OperatingProfit: 120,
			OperatingCost:   860,
		})

		_, ok := pliByType(plis, benchmark.PLIBerryRatio)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("WeightedPLI", func() {
	opOC := func(year string, value float64) benchmark.PLIValue {
		return benchmark.PLIValue{
			Type:  benchmark.PLIOperatingProfitOperatingCost,
			Year:  year,
			Value: value,
		}
	}

	It("weights the three most recent years 0.5/0.35/0.15", func() {
		plis := []benchmark.PLIValue{
			opOC("2021-22", 8),
			opOC("2023-24", 12),
			opOC("2022-23", 10),
		}

		// 12*0.5 + 10*0.35 + 8*0.15 = 10.7
		Expect(benchmark.WeightedPLI(plis, benchmark.PLIOperatingProfitOperatingCost)).
			To(BeNumerically("~", 10.7, 1e-9))
	})

	It("renormalises when fewer than three years exist", func() {
		plis := []benchmark.PLIValue{
			opOC("2023-24", 12),
			opOC("2022-23", 10),
		}

		// (12*0.5 + 10*0.35) / 0.85
		Expect(benchmark.WeightedPLI(plis, benchmark.PLIOperatingProfitOperatingCost)).
			To(BeNumerically("~", (12*0.5+10*0.35)/0.85, 1e-9))
	})

	It("ignores years beyond the weight list", func() {
		plis := []benchmark.PLIValue{
			opOC("2023-24", 12),
			opOC("2022-23", 10),
			opOC("2021-22", 8),
			opOC("2020-21", 100),
		}

		Expect(benchmark.WeightedPLI(plis, benchmark.PLIOperatingProfitOperatingCost)).
			To(BeNumerically("~", 10.7, 1e-9))
	})

	It("returns 0 when no years match the indicator", func() {
		plis := []benchmark.PLIValue{opOC("2023-24", 12)}

		Expect(benchmark.WeightedPLI(plis, benchmark.PLIReturnOnAssets)).To(BeZero())
		Expect(benchmark.WeightedPLI(nil, benchmark.PLIOperatingProfitOperatingCost)).To(BeZero())
	})
})
