package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"tpbench/internal/config"
	"tpbench/internal/db"
	"tpbench/internal/models"
	"tpbench/internal/routes"
	"tpbench/internal/testhelpers"
)

var _ = Describe("CompanyController", func() {
	var (
		dbConn *gorm.DB
		router *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)

		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		dbConn, err = db.InitDB(cfg.DatabaseURL)
		if err != nil {
			Skip("database not available: " + err.Error())
		}

		testhelpers.CleanupDB(dbConn)

		router = routes.SetupRouter(dbConn, cfg)
	})

	Describe("GET /api/v1/companies", func() {
		BeforeEach(func() {
			testhelpers.CreateCompany(dbConn, models.Company{
				CIN:  "U72200KA2011PTC061001",
				Name: "Crestline Technologies",
			})
			testhelpers.CreateCompany(dbConn, models.Company{
				CIN:  "U72200MH2013PTC061002",
				Name: "Veridian Analytics",
			})
		})

		It("returns companies", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			Expect(resp.Code).To(Equal(http.StatusOK))

			var body struct {
				Companies []models.Company `json:"companies"`
			}
			Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Companies).To(HaveLen(2))
			Expect(body.Companies[0].Name).To(Equal("Crestline Technologies"))
		})

		It("filters companies by name fragment", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/companies?search=verid", nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			Expect(resp.Code).To(Equal(http.StatusOK))

			var body struct {
				Companies []models.Company `json:"companies"`
			}
			Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Companies).To(HaveLen(1))
			Expect(body.Companies[0].Name).To(Equal("Veridian Analytics"))
		})

		It("filters companies by CIN fragment", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/companies?search=U72200MH", nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			Expect(resp.Code).To(Equal(http.StatusOK))

			var body struct {
				Companies []models.Company `json:"companies"`
			}
			Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Companies).To(HaveLen(1))
			Expect(body.Companies[0].CIN).To(Equal("U72200MH2013PTC061002"))
		})
	})

	Describe("GET /api/v1/companies/:cin/financials", func() {
		BeforeEach(func() {
			company := testhelpers.CreateCompany(dbConn, models.Company{
				CIN:  "U72200KA2011PTC061001",
				Name: "Crestline Technologies",
			})
			testhelpers.CreateFinancialRecord(dbConn, models.FinancialRecord{
				CompanyID:        company.ID,
				Year:             "2022-23",
				OperatingRevenue: 900,
			})
			testhelpers.CreateFinancialRecord(dbConn, models.FinancialRecord{
				CompanyID:        company.ID,
				Year:             "2023-24",
				OperatingRevenue: 1000,
			})
		})

		It("returns the statement years most recent first", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/U72200KA2011PTC061001/financials", nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			Expect(resp.Code).To(Equal(http.StatusOK))

			var body struct {
				Company    models.Company           `json:"company"`
				Financials []models.FinancialRecord `json:"financials"`
			}
			Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Company.Name).To(Equal("Crestline Technologies"))
			Expect(body.Financials).To(HaveLen(2))
			Expect(body.Financials[0].Year).To(Equal("2023-24"))
		})

		It("returns 404 for an unknown CIN", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/U00000XX0000XXX000000/financials", nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})
	})
})
