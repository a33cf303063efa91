package benchmark

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("comparability weight vector", func() {
	It("sums to 1.0", func() {
		sum := comparabilityWeights.Functional +
			comparabilityWeights.Financial +
			comparabilityWeights.Industry +
			comparabilityWeights.Geographic +
			comparabilityWeights.Temporal +
			comparabilityWeights.Qualitative
		Expect(sum).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("weights the financial ratio terms to exactly 1.0", func() {
		Expect(financialRevenueWeight + financialAssetWeight + financialEmployeeWeight).To(Equal(1.0))
	})

	It("normalises the multi-year weights to exactly 1.0 over three years", func() {
		sum := 0.0
		for _, w := range multiYearWeights {
			sum += w
		}
		Expect(sum).To(Equal(1.0))
	})
})
