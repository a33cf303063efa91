package xbrl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Figures are the financial line items extracted from one fiscal year's
// statement. Values are in the statement's reporting unit.
type Figures struct {
	Revenue          float64 `json:"revenue"`
	OperatingRevenue float64 `json:"operating_revenue"`
	GrossProfit      float64 `json:"gross_profit"`
	OperatingProfit  float64 `json:"operating_profit"`
	NetProfit        float64 `json:"net_profit"`
	OperatingCost    float64 `json:"operating_cost"`
	TotalCost        float64 `json:"total_cost"`
	TotalAssets      float64 `json:"total_assets"`
	Receivables      float64 `json:"receivables"`
	Payables         float64 `json:"payables"`
	Inventory        float64 `json:"inventory"`
	CapitalEmployed  float64 `json:"capital_employed"`
	EmployeeCost     float64 `json:"employee_cost"`
	Depreciation     float64 `json:"depreciation"`
}

// YearStatement pairs a fiscal-year label with its figures.
type YearStatement struct {
	Year    string  `json:"year"`
	Figures Figures `json:"figures"`
}

// Statement is the parsed output of one registry filing, most recent year
// first.
type Statement struct {
	CompanyName string          `json:"company_name"`
	CIN         string          `json:"cin"`
	Years       []YearStatement `json:"years"`
}

// lineItemSetters maps a normalised row label to the figure it populates.
// Registry documents are not perfectly uniform, so common label variants map
// to the same field.
var lineItemSetters = map[string]func(*Figures, float64){
	"revenue":                          func(f *Figures, v float64) { f.Revenue = v },
	"total revenue":                    func(f *Figures, v float64) { f.Revenue = v },
	"revenue from operations":          func(f *Figures, v float64) { f.OperatingRevenue = v },
	"operating revenue":                func(f *Figures, v float64) { f.OperatingRevenue = v },
	"gross profit":                     func(f *Figures, v float64) { f.GrossProfit = v },
	"operating profit":                 func(f *Figures, v float64) { f.OperatingProfit = v },
	"profit before interest and tax":   func(f *Figures, v float64) { f.OperatingProfit = v },
	"net profit":                       func(f *Figures, v float64) { f.NetProfit = v },
	"profit after tax":                 func(f *Figures, v float64) { f.NetProfit = v },
	"operating cost":                   func(f *Figures, v float64) { f.OperatingCost = v },
	"cost of operations":               func(f *Figures, v float64) { f.OperatingCost = v },
	"total cost":                       func(f *Figures, v float64) { f.TotalCost = v },
	"total expenses":                   func(f *Figures, v float64) { f.TotalCost = v },
	"total assets":                     func(f *Figures, v float64) { f.TotalAssets = v },
	"trade receivables":                func(f *Figures, v float64) { f.Receivables = v },
	"trade payables":                   func(f *Figures, v float64) { f.Payables = v },
	"inventories":                      func(f *Figures, v float64) { f.Inventory = v },
	"capital employed":                 func(f *Figures, v float64) { f.CapitalEmployed = v },
	"employee benefit expense":         func(f *Figures, v float64) { f.EmployeeCost = v },
	"employee cost":                    func(f *Figures, v float64) { f.EmployeeCost = v },
	"depreciation and amortisation":    func(f *Figures, v float64) { f.Depreciation = v },
	"depreciation":                     func(f *Figures, v float64) { f.Depreciation = v },
}

// ParseStatement extracts the company identity and per-year figures from a
// raw registry document. Unrecognised rows are skipped; a document without a
// single statement year is an error.
func ParseStatement(raw []byte) (*Statement, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}

	out := &Statement{}
	nameSel := doc.Find("COMPANY-NAME").First()
	out.CompanyName = strings.TrimSpace(nameSel.Text())
	if cin, ok := nameSel.Attr("cin"); ok {
		out.CIN = strings.TrimSpace(cin)
	}

	doc.Find("STATEMENT").Each(func(i int, stmt *goquery.Selection) {
		year, ok := stmt.Attr("year")
		if !ok || strings.TrimSpace(year) == "" {
			return
		}

		figures := Figures{}
		stmt.Find("TR").Each(func(i int, row *goquery.Selection) {
			cells := rowCells(row)
			if len(cells) < 2 {
				return
			}

			setter, ok := lineItemSetters[normaliseLabel(cells[0])]
			if !ok {
				return
			}
			if v, ok := parseAmount(cells[1]); ok {
				setter(&figures, v)
			}
		})

		out.Years = append(out.Years, YearStatement{
			Year:    strings.TrimSpace(year),
			Figures: figures,
		})
	})

	if len(out.Years) == 0 {
		return nil, fmt.Errorf("no statement years in document for %q", out.CompanyName)
	}

	sort.Slice(out.Years, func(i, j int) bool { return out.Years[i].Year > out.Years[j].Year })

	return out, nil
}

// rowCells collects the text of the TD-like children of a row. Some filings
// still use the legacy TU/TE cell tags.
func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Children().Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if strings.EqualFold(tag, "td") || strings.EqualFold(tag, "th") ||
			strings.EqualFold(tag, "tu") || strings.EqualFold(tag, "te") {
			text := s.Text()
			for _, node := range s.Nodes {
				if node.Type == html.TextNode {
					text += node.Data
				}
			}
			cells = append(cells, text)
		}
	})
	return cells
}

var reSpaces = regexp.MustCompile(`\s+`)

func normaliseLabel(s string) string {
	return reSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

var reAmountNoise = regexp.MustCompile(`[,\s]`)

// parseAmount converts an Indian-format amount cell to a float. "-" and
// empty cells are absent values; parenthesised amounts are negative.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = reAmountNoise.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
