package registry

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const baseURL = "https://filings.corpregistry.gov.in/api"

// Client talks to the corporate-filings registry: annual-statement listings
// as JSON and zipped XBRL documents.
type Client struct {
	key    string
	client *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		key: apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UseDefaultClient switches to http.DefaultClient so tests can install a
// mock transport.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

// Filing is one entry of a statement-filing listing.
type Filing struct {
	FilingNumber string `json:"filing_number"`
	CIN          string `json:"cin"`
	CompanyName  string `json:"company_name"`
	FormType     string `json:"form_type"`
	FilingDate   string `json:"filing_date"`
}

type listResp struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	PageNo     int      `json:"page_no"`
	TotalPages int      `json:"total_pages"`
	Filings    []Filing `json:"filings"`
}

// Period bounds a filing listing.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
}

// ErrDocumentNotFound is returned when the registry has no document for a
// filing number.
var ErrDocumentNotFound = errors.New("document not found")

func (c *Client) listFilings(cin, startDate, endDate string, pageNo int) (*listResp, error) {
	u, _ := url.Parse(baseURL + "/filings.json")
	q := u.Query()
	q.Set("api_key", c.key)

	if cin != "" {
		q.Set("cin", cin)
	}
	if startDate != "" {
		q.Set("start_date", startDate) // YYYYMMDD
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	if pageNo > 0 {
		q.Set("page_no", fmt.Sprint(pageNo))
	}
	u.RawQuery = q.Encode()

	resp, err := c.client.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out listResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	if out.Status != "ok" {
		return nil, fmt.Errorf("registry error %s: %s", out.Status, out.Message)
	}

	return &out, nil
}

// GetRecentFilings lists statement filings, walking every page. Without an
// explicit period it covers the last five days.
func (c *Client) GetRecentFilings(period ...Period) ([]Filing, error) {
	var startDate, endDate string
	if len(period) > 0 {
		startDate = period[0].StartDate.Format("20060102")
		endDate = period[0].EndDate.Format("20060102")
	} else {
		today := time.Now()
		startDate = today.AddDate(0, 0, -5).Format("20060102")
		endDate = today.Format("20060102")
	}

	page := 1
	log.Printf("Listing registry filings %s..%s page %d", startDate, endDate, page)

	res, err := c.listFilings("", startDate, endDate, page)
	if err != nil {
		return nil, err
	}

	filings := res.Filings
	for page < res.TotalPages {
		page++
		log.Printf("Listing registry filings %s..%s page %d", startDate, endDate, page)

		next, err := c.listFilings("", startDate, endDate, page)
		if err != nil {
			return nil, err
		}
		filings = append(filings, next.Filings...)
	}

	return filings, nil
}

// GetDocument downloads the raw statement document for a filing. The
// registry serves either a zip archive containing the document or, for
// errors, a JSON body.
func (c *Client) GetDocument(filingNumber string) (string, error) {
	u, _ := url.Parse(baseURL + "/document.zip")
	q := u.Query()
	q.Set("api_key", c.key)
	q.Set("filing_number", filingNumber)
	u.RawQuery = q.Encode()

	resp, err := c.client.Get(u.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrDocumentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry error %d: %s", resp.StatusCode, string(buf))
	}

	if mimeType := resp.Header.Get("Content-Type"); mimeType == "application/json" {
		var e struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(buf, &e); err == nil && e.Status == "not_found" {
			return "", ErrDocumentNotFound
		}
		return "", fmt.Errorf("registry error: %s", string(buf))
	}

	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", err
	}

	outBuf := new(bytes.Buffer)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return "", err
		}

		_, err = io.Copy(outBuf, rc)
		rc.Close()
		if err != nil {
			return "", err
		}
	}

	return outBuf.String(), nil
}
