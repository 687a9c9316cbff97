// Package clipper turns a recipe web page into draft shopping-list items. It
// scrapes the ingredient list out of the page's markup and parses each line
// into a quantity, unit and product name.
package clipper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

// DraftItem is one parsed ingredient line, ready for review before it is
// added to a list.
type DraftItem struct {
	Name     string
	Quantity float64
	Unit     string
}

type gatewayAPI interface {
	CreateProduct(ctx context.Context, input api.ProductInput) (domain.Product, error)
	AddItem(ctx context.Context, listID string, input api.ItemInput) (domain.ListItem, error)
}

// Clipper fetches recipe pages and converts their ingredients into list items.
type Clipper struct {
	httpClient *http.Client
	api        gatewayAPI
}

// NewClipper creates a clipper backed by the given gateway.
func NewClipper(gateway gatewayAPI) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		api:        gateway,
	}
}

// Clip fetches the URL and returns the parsed ingredient drafts.
func (c *Clipper) Clip(ctx context.Context, pageURL string) ([]DraftItem, error) {
	lines, err := c.fetchIngredients(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ingredients: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no ingredients found at %s", pageURL)
	}

	drafts := make([]DraftItem, 0, len(lines))
	for _, line := range lines {
		if d, ok := parseIngredient(line); ok {
			drafts = append(drafts, d)
		}
	}
	return drafts, nil
}

// ClipToList clips the URL and adds every draft to the given shopping list,
// creating a product per draft. It returns the number of items added.
func (c *Clipper) ClipToList(ctx context.Context, pageURL, listID string) (int, error) {
	drafts, err := c.Clip(ctx, pageURL)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, d := range drafts {
		product, err := c.api.CreateProduct(ctx, api.ProductInput{Name: d.Name})
		if err != nil {
			return added, fmt.Errorf("failed to create product %q: %w", d.Name, err)
		}
		_, err = c.api.AddItem(ctx, listID, api.ItemInput{
			ProductID: product.ID,
			Quantity:  d.Quantity,
			Unit:      d.Unit,
		})
		if err != nil {
			return added, fmt.Errorf("failed to add %q: %w", d.Name, err)
		}
		added++
	}
	return added, nil
}

func (c *Clipper) fetchIngredients(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	// Remove noise before selecting, so ad blocks styled as lists don't leak
	// into the fallback selectors.
	doc.Find("script, style, nav, footer, iframe, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	// Structured markup first, loose class conventions second.
	selectors := []string{
		"[itemprop='recipeIngredient']",
		".recipe-ingredients li",
		".ingredients li",
	}
	for _, sel := range selectors {
		var lines []string
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if text != "" {
				lines = append(lines, text)
			}
		})
		if len(lines) > 0 {
			return lines, nil
		}
	}
	return nil, nil
}

var ingredientRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?(?:\s*/\s*\d+)?)?\s*([a-zA-Z]+\.?)?\s+(.+)$`)

var knownUnits = map[string]string{
	"g": "g", "gr": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kilo": "kg", "kilos": "kg",
	"ml": "ml", "l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"cup": "cup", "cups": "cup",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"pinch": "pinch", "clove": "clove", "cloves": "clove",
	"can": "can", "cans": "can", "pack": "pack", "packs": "pack",
}

// parseIngredient splits a raw line like "2 cups flour" or "1/2 tsp salt"
// into a draft. A line with no leading quantity becomes a single unit-less
// draft of the whole text.
func parseIngredient(line string) (DraftItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return DraftItem{}, false
	}

	m := ingredientRe.FindStringSubmatch(line)
	if m == nil || m[1] == "" {
		return DraftItem{Name: line, Quantity: 1}, true
	}

	qty, err := parseQuantity(m[1])
	if err != nil || qty <= 0 {
		return DraftItem{Name: line, Quantity: 1}, true
	}

	unitToken := strings.ToLower(strings.TrimSuffix(m[2], "."))
	name := strings.TrimSpace(m[3])
	unit, ok := knownUnits[unitToken]
	if !ok {
		// The second token is part of the name ("2 red onions").
		name = strings.TrimSpace(m[2] + " " + name)
		unit = ""
	}
	if name == "" {
		return DraftItem{}, false
	}
	return DraftItem{Name: name, Quantity: qty, Unit: unit}, true
}

func parseQuantity(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, ",", ".")
	if num, den, found := strings.Cut(raw, "/"); found {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("invalid fraction %q", raw)
		}
		return n / d, nil
	}
	return strconv.ParseFloat(raw, 64)
}
