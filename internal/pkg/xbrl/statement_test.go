package xbrl_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tpbench/internal/pkg/xbrl"
)

const sampleDocument = `<DOCUMENT>
<COMPANY-NAME cin="U72200KA2011PTC061234">Meridian Software Private Limited</COMPANY-NAME>
<STATEMENT year="2023-24">
<TABLE>
<TR><TD>Revenue from Operations</TD><TD>1,15,000</TD></TR>
<TR><TD>Total Revenue</TD><TD>1,18,500</TD></TR>
<TR><TD>Employee Benefit Expense</TD><TD>62,300</TD></TR>
<TR><TD>Depreciation and Amortisation</TD><TD>4,100</TD></TR>
<TR><TD>Total Expenses</TD><TD>1,01,200</TD></TR>
<TR><TD>Operating Profit</TD><TD>15,400</TD></TR>
<TR><TD>Profit After Tax</TD><TD>(2,750)</TD></TR>
<TR><TD>Trade Receivables</TD><TD>22,900</TD></TR>
<TR><TD>Trade Payables</TD><TD>9,850</TD></TR>
<TR><TD>Inventories</TD><TD>-</TD></TR>
<TR><TD>Total Assets</TD><TD>88,000</TD></TR>
<TR><TD>Exceptional Items</TD><TD>550</TD></TR>
</TABLE>
</STATEMENT>
<STATEMENT year="2022-23">
<TABLE>
<TR><TD>Revenue from Operations</TD><TD>98,400</TD></TR>
<TR><TD>Profit After Tax</TD><TD>6,120</TD></TR>
</TABLE>
</STATEMENT>
</DOCUMENT>`

var _ = Describe("ParseStatement", func() {
	It("extracts the company identity", func() {
		stmt, err := xbrl.ParseStatement([]byte(sampleDocument))
		Expect(err).NotTo(HaveOccurred())
		Expect(stmt.CompanyName).To(Equal("Meridian Software Private Limited"))
		Expect(stmt.CIN).To(Equal("U72200KA2011PTC061234"))
	})

	It("orders years with the most recent first", func() {
		stmt, err := xbrl.ParseStatement([]byte(sampleDocument))
		Expect(err).NotTo(HaveOccurred())
		Expect(stmt.Years).To(HaveLen(2))
		Expect(stmt.Years[0].Year).To(Equal("2023-24"))
		Expect(stmt.Years[1].Year).To(Equal("2022-23"))
	})

	It("maps line items onto figures", func() {
		stmt, err := xbrl.ParseStatement([]byte(sampleDocument))
		Expect(err).NotTo(HaveOccurred())

		latest := stmt.Years[0].Figures
		Expect(latest.OperatingRevenue).To(Equal(115000.0))
		Expect(latest.Revenue).To(Equal(118500.0))
		Expect(latest.EmployeeCost).To(Equal(62300.0))
		Expect(latest.Depreciation).To(Equal(4100.0))
		Expect(latest.TotalCost).To(Equal(101200.0))
		Expect(latest.OperatingProfit).To(Equal(15400.0))
		Expect(latest.Receivables).To(Equal(22900.0))
		Expect(latest.Payables).To(Equal(9850.0))
		Expect(latest.TotalAssets).To(Equal(88000.0))
	})

	It("treats parenthesised amounts as negative", func() {
		stmt, err := xbrl.ParseStatement([]byte(sampleDocument))
		Expect(err).NotTo(HaveOccurred())
		Expect(stmt.Years[0].Figures.NetProfit).To(Equal(-2750.0))
	})

	It("leaves dash cells at zero", func() {
		stmt, err := xbrl.ParseStatement([]byte(sampleDocument))
		Expect(err).NotTo(HaveOccurred())
		Expect(stmt.Years[0].Figures.Inventory).To(Equal(0.0))
	})

	It("ignores unrecognised rows", func() {
		stmt, err := xbrl.ParseStatement([]byte(sampleDocument))
		Expect(err).NotTo(HaveOccurred())
		Expect(stmt.Years[1].Figures.OperatingRevenue).To(Equal(98400.0))
		Expect(stmt.Years[1].Figures.NetProfit).To(Equal(6120.0))
	})

	It("rejects documents without statements", func() {
		_, err := xbrl.ParseStatement([]byte(`<DOCUMENT><COMPANY-NAME cin="X">Empty Filings Ltd</COMPANY-NAME></DOCUMENT>`))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("no statement years"))
	})
})
