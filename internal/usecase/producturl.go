package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidProductURL = errors.New("invalid product url")

var productPathPattern = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`)

// ref_ values seen on organic Amazon search and detail-page clicks.
var browseRefs = []string{
	"sr_1_2", "sr_1_4", "sr_1_5", "sr_1_6", "sr_1_7", "sr_1_8",
	"sr_1_9", "sr_1_10", "sr_1_11", "sr_1_12", "sr_1_13", "sr_1_14",
	"nb_sb_noss_2", "nb_sb_noss_3", "nb_sb_ss_i_1_4",
	"sspa_dk_detail_0", "sspa_dk_detail_1", "sspa_cps_detail_2",
	"sponsored_products_auto", "sponsored_products_related",
	"srsr_1_1", "srsr_2_2", "ppx_yo_dt_b_search_asin_title",
}

// CanonicalProductURL strips tracking parameters. Amazon product URLs are
// reduced to the https://www.amazon.com/<slug>/dp/<ASIN> form; anything
// else keeps its host and path with the query removed.
func CanonicalProductURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidProductURL, raw)
	}

	if match := productPathPattern.FindStringSubmatch(parsed.Path); match != nil {
		if slug := productSlug(parsed.Path); slug != "" {
			return fmt.Sprintf("https://www.amazon.com/%s/dp/%s", slug, match[1]), nil
		}
		return fmt.Sprintf("https://www.amazon.com/dp/%s", match[1]), nil
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String(), nil
}

// ProductID derives the stable identifier for a canonical URL: the ASIN
// when present, otherwise a 16-hex prefix of the URL's SHA-256.
func ProductID(canonical string) string {
	if match := productPathPattern.FindStringSubmatch(canonical); match != nil {
		return match[1]
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:16]
}

// ProductNameFromURL recovers a display name from the URL slug.
func ProductNameFromURL(canonical string) string {
	parsed, err := url.Parse(canonical)
	if err != nil {
		return "Tracked Product"
	}
	slug := productSlug(parsed.Path)
	if slug == "" {
		return "Tracked Product"
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// BrowseURL disguises a canonical Amazon URL as an organic search click by
// attaching a plausible ref tag, a search timestamp and the keywords that
// would have found the product. Non-Amazon URLs pass through unchanged.
func BrowseURL(canonical, keywords string) string {
	if productPathPattern.FindStringSubmatch(canonical) == nil {
		return canonical
	}
	ref := browseRefs[rand.Intn(len(browseRefs))]
	return fmt.Sprintf(
		"%s/?th=1&psc=1&ref_=%s&qid=%d&keywords=%s",
		canonical, ref, time.Now().Unix(), url.QueryEscape(keywords),
	)
}

func productSlug(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if (part == "dp" || (part == "product" && i > 0 && parts[i-1] == "gp")) && i > 0 {
			slug := parts[i-1]
			if slug != "" && slug != "gp" {
				return slug
			}
			return ""
		}
	}
	return ""
}
