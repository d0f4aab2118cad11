package probe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numberRe     = regexp.MustCompile(`\d+(\.\d+)?`)
)

// parsePriceText strips whitespace from a price node's text and pulls the
// first numeric run out of it. Handles formats like "1 234 грн" or "$1,299".
func parsePriceText(text string) (float64, bool) {
	cleaned := whitespaceRe.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	match := numberRe.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// ExtractLowestPrice parses rendered HTML and returns the lowest price found
// among nodes matching selector. A page with no parseable price nodes yields
// a nil price without error, since listings legitimately go missing.
func ExtractLowestPrice(html, selector string) (*float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}

	var lowest *float64
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		price, ok := parsePriceText(sel.Text())
		if !ok {
			return
		}
		if lowest == nil || price < *lowest {
			lowest = &price
		}
	})

	return lowest, nil
}
