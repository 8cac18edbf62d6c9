// ABOUTME: Conjunctive substring filter over the catalog
// ABOUTME: Every term must match category, name, a visual tag or the specs text
package store

import (
	"strings"

	"github.com/harperreed/voicecart/internal/catalog"
)

// resetCriteria is the criteria that shows the whole catalog
const resetCriteria = "all"

// NormalizeCriteria lower-cases raw and turns underscores into spaces
func NormalizeCriteria(raw string) string {
	return strings.ReplaceAll(strings.ToLower(raw), "_", " ")
}

// Filter returns the products matching raw in catalog order along with the
// normalized criteria. An empty or "all" criteria returns every product and
// an empty criteria string.
func Filter(products []catalog.Product, raw string) ([]catalog.Product, string) {
	normalized := NormalizeCriteria(raw)
	terms := strings.Fields(normalized)

	if len(terms) == 0 || normalized == resetCriteria {
		return cloneProducts(products), ""
	}

	out := []catalog.Product{}
	for _, p := range products {
		if matchesAll(p, terms) {
			out = append(out, p)
		}
	}
	return out, normalized
}

func matchesAll(p catalog.Product, terms []string) bool {
	category := strings.ToLower(p.Category)
	name := strings.ToLower(p.Name)
	specs := strings.ToLower(p.SpecsText())

	for _, term := range terms {
		if strings.Contains(category, term) || strings.Contains(name, term) || strings.Contains(specs, term) {
			continue
		}
		if !tagMatches(p.VisualTags, term) {
			return false
		}
	}
	return true
}

func tagMatches(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
