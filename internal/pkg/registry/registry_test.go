package registry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tpbench/internal/pkg/registry"
	"tpbench/internal/testhelpers"
)

var _ = Describe("Client", func() {
	var client *registry.Client

	BeforeEach(func() {
		client = registry.New("test-api-key")

		testhelpers.Activate()
		client.UseDefaultClient()
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	Describe("GetRecentFilings", func() {
		It("walks every listing page", func() {
			testhelpers.New("https://filings.corpregistry.gov.in").
				Get("/api/filings.json").Reply(200).BodyString(`{
					"status": "ok",
					"page_no": 1,
					"total_pages": 2,
					"filings": [
						{"filing_number": "F2024-0001734", "cin": "U72200KA2011PTC061234", "company_name": "Meridian Software Private Limited", "form_type": "AOC-4", "filing_date": "2024-10-28"}
					]
				}`).Header("Content-Type", "application/json")

			testhelpers.New("https://filings.corpregistry.gov.in").
				Get("/api/filings.json").Reply(200).BodyString(`{
					"status": "ok",
					"page_no": 2,
					"total_pages": 2,
					"filings": [
						{"filing_number": "F2024-0001735", "cin": "U24100MH2009PTC194321", "company_name": "Arcadia Specialty Chemicals Limited", "form_type": "AOC-4", "filing_date": "2024-10-29"}
					]
				}`).Header("Content-Type", "application/json")

			filings, err := client.GetRecentFilings()
			Expect(err).NotTo(HaveOccurred())
			Expect(filings).To(HaveLen(2))
			Expect(filings[0].FilingNumber).To(Equal("F2024-0001734"))
			Expect(filings[1].CIN).To(Equal("U24100MH2009PTC194321"))
			Expect(testhelpers.IsDone()).To(BeTrue())
		})

		It("surfaces a registry error status", func() {
			testhelpers.New("https://filings.corpregistry.gov.in").
				Get("/api/filings.json").Reply(200).
				BodyString(`{ "status": "unauthorized", "message": "invalid api key" }`)

			_, err := client.GetRecentFilings()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unauthorized"))
		})
	})

	Describe("GetDocument", func() {
		It("unpacks the zipped document", func() {
			document := `<DOCUMENT><COMPANY-NAME cin="X">Test</COMPANY-NAME></DOCUMENT>`
			archive, err := testhelpers.CreateMockZipArchive("statement.xml", []byte(document))
			Expect(err).NotTo(HaveOccurred())

			testhelpers.New("https://filings.corpregistry.gov.in").
				Get("/api/document.zip").Reply(200).Body(archive).
				Header("Content-Type", "application/zip")

			raw, err := client.GetDocument("F2024-0001734")
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(Equal(document))
		})

		It("maps a 404 to ErrDocumentNotFound", func() {
			testhelpers.New("https://filings.corpregistry.gov.in").
				Get("/api/document.zip").Reply(404).BodyString("gone")

			_, err := client.GetDocument("F2024-0001734")
			Expect(err).To(MatchError(registry.ErrDocumentNotFound))
		})

		It("maps a not_found JSON body to ErrDocumentNotFound", func() {
			testhelpers.New("https://filings.corpregistry.gov.in").
				Get("/api/document.zip").Reply(200).
				BodyString(`{ "status": "not_found", "message": "no document" }`).
				Header("Content-Type", "application/json")

			_, err := client.GetDocument("F2024-0001734")
			Expect(err).To(MatchError(registry.ErrDocumentNotFound))
		})
	})
})
