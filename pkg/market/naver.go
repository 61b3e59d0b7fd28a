package market

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	"github.com/pji114/jusik/internal/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// NaverClient scrapes the rising/falling movers tables on Naver Finance.
type NaverClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNaverClient(baseURL string, timeout time.Duration) *NaverClient {
	return &NaverClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *NaverClient) FetchMovers(ctx context.Context, direction model.Direction, count int) ([]model.StockRecord, error) {
	page := "sise_rise.naver"
	if direction == model.DirectionFalling {
		page = "sise_fall.naver"
	}
	url := fmt.Sprintf("%s/sise/%s", c.baseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	// The page declares its own charset (EUC-KR in production).
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: charset: %v", ErrUpstream, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrUpstream, err)
	}

	rows := doc.Find("table.type_2 tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("%w: movers table not found", ErrUpstream)
	}

	now := time.Now()
	seen := make(map[string]bool)
	var records []model.StockRecord

	rows.Each(func(_ int, row *goquery.Selection) {
		if len(records) >= count {
			return
		}

		cols := row.Find("td")
		if cols.Length() < 10 {
			return
		}

		nameCell := cols.Eq(1)
		name := strings.TrimSpace(nameCell.Text())
		if name == "" || seen[name] {
			return
		}

		price, err := parseDecimal(cols.Eq(2).Text())
		if err != nil {
			return
		}
		change, err := parseDecimal(cols.Eq(4).Text())
		if err != nil {
			return
		}
		volume, err := parseVolume(cols.Eq(5).Text())
		if err != nil {
			return
		}

		link := ""
		if href, ok := nameCell.Find("a").Attr("href"); ok {
			link = c.baseURL + href
		}

		seen[name] = true
		records = append(records, model.StockRecord{
			Name:          name,
			Price:         price,
			ChangePercent: change,
			Volume:        volume,
			Rank:          len(records) + 1,
			Link:          link,
			FetchedAt:     now,
		})
	})

	if len(records) == 0 {
		return nil, ErrEmpty
	}

	return records, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimPrefix(cleaned, "+")
	return decimal.NewFromString(cleaned)
}

func parseVolume(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return strconv.ParseInt(cleaned, 10, 64)
}
