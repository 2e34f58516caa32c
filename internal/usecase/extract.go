package usecase

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

var ErrPriceNotFound = errors.New("no price found in page content")

var currencySymbols = map[string]string{
	"$": "USD",
	"£": "GBP",
	"€": "EUR",
	"¥": "JPY",
	"₹": "INR",
}

// priceStrategy locates a raw price string in a parsed document. The
// strategies run in priority order; the extractor succeeds on the first
// one whose value normalizes cleanly.
type priceStrategy struct {
	name   string
	locate func(doc *goquery.Document) (string, bool)
}

var priceStrategies = []priceStrategy{
	{
		// mobile detail pages split the price into whole and fraction
		// spans; the whole part usually carries the decimal point
		name: "mobile-core-price",
		locate: func(doc *goquery.Document) (string, bool) {
			block := doc.Find("#corePriceDisplay_mobile_feature_div")
			whole := strings.TrimSpace(block.Find(".a-price-whole").First().Text())
			fraction := strings.TrimSpace(block.Find(".a-price-fraction").First().Text())
			if whole == "" || fraction == "" {
				return "", false
			}
			if !strings.HasSuffix(whole, ".") {
				whole += "."
			}
			return whole + fraction, true
		},
	},
	{
		name: "desktop-core-price",
		locate: func(doc *goquery.Document) (string, bool) {
			return nonEmptyText(doc.Find("#corePriceDisplay_desktop_feature_div span.a-offscreen").First())
		},
	},
	{
		name: "offscreen-price",
		locate: func(doc *goquery.Document) (string, bool) {
			return nonEmptyText(doc.Find("span.a-price span.a-offscreen").First())
		},
	},
	{
		name: "legacy-price-block",
		locate: func(doc *goquery.Document) (string, bool) {
			return nonEmptyText(doc.Find("#priceblock_ourprice").First())
		},
	},
}

// ExtractPrice parses raw page content into a price and currency code. It
// is a pure function of its input; when every strategy is exhausted it
// fails with ErrPriceNotFound.
func ExtractPrice(content []byte) (decimal.Decimal, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return decimal.Decimal{}, "", ErrPriceNotFound
	}

	for _, strategy := range priceStrategies {
		raw, ok := strategy.locate(doc)
		if !ok {
			continue
		}
		price, currency, err := normalizePrice(raw)
		if err != nil {
			continue
		}
		return price, currency, nil
	}
	return decimal.Decimal{}, "", ErrPriceNotFound
}

// ExtractTitle pulls a display name out of page content, best-effort.
func ExtractTitle(content []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", false
	}
	if title := strings.TrimSpace(doc.Find("#productTitle").First().Text()); title != "" {
		return title, true
	}
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title, true
		}
	}
	return "", false
}

func nonEmptyText(selection *goquery.Selection) (string, bool) {
	text := strings.TrimSpace(selection.Text())
	return text, text != ""
}

func normalizePrice(raw string) (decimal.Decimal, string, error) {
	trimmed := strings.TrimSpace(raw)
	currency := "USD"
	for symbol, code := range currencySymbols {
		if strings.Contains(trimmed, symbol) {
			currency = code
			break
		}
	}

	var filtered strings.Builder
	for _, r := range trimmed {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			filtered.WriteRune(r)
		}
	}
	if filtered.Len() == 0 {
		return decimal.Decimal{}, "", ErrPriceNotFound
	}

	price, err := decimal.NewFromString(filtered.String())
	if err != nil {
		return decimal.Decimal{}, "", ErrPriceNotFound
	}
	if price.IsNegative() {
		return decimal.Decimal{}, "", ErrPriceNotFound
	}
	return price, currency, nil
}
