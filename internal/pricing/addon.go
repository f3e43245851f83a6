package pricing

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dinehub/orderflow/internal/models"
)

// ErrMalformedTag is returned for modifier tags the grammar does not accept
var ErrMalformedTag = errors.New("malformed modifier tag")

// centsThreshold splits the price token heuristic: an integer token at or
// above it is already cents, anything below is a dollar amount.
const centsThreshold = 50

// ParseAddOn parses one catalog modifier tag.
//
// Grammar: name ('|' | '=') price. The price token is taken as cents when it
// is an integer >= 50, otherwise as a decimal dollar amount rounded to the
// nearest cent. Examples: "Extra cheese|1.00" -> 100, "Bacon=150" -> 150,
// "Oat milk|75" -> 75, "Avocado|2" -> 200.
func ParseAddOn(tag string) (models.AddOnDefinition, error) {
	sep := strings.IndexAny(tag, "|=")
	if sep < 0 {
		return models.AddOnDefinition{}, ErrMalformedTag
	}

	name := strings.TrimSpace(tag[:sep])
	token := strings.TrimSpace(tag[sep+1:])
	if name == "" || token == "" {
		return models.AddOnDefinition{}, ErrMalformedTag
	}

	delta, err := parsePriceToken(token)
	if err != nil {
		return models.AddOnDefinition{}, ErrMalformedTag
	}

	return models.AddOnDefinition{Name: name, PriceDeltaCents: delta}, nil
}

// ParseAddOns parses all well-formed tags, silently dropping malformed ones.
// A selected add-on that only matched a dropped tag still fails validation.
func ParseAddOns(tags []string) []models.AddOnDefinition {
	defs := []models.AddOnDefinition{}
	for _, tag := range tags {
		def, err := ParseAddOn(tag)
		if err != nil {
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

func parsePriceToken(token string) (int64, error) {
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		if n >= centsThreshold {
			return n, nil
		}
		return n * 100, nil
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}

	return int64(math.Round(v * 100)), nil
}
