package view

import (
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

var (
	thousand        = decimal.NewFromInt(1000)
	fiveThousand    = decimal.NewFromInt(5000)
	fifteenThousand = decimal.NewFromInt(15000)
)

// Match reports whether p passes every filter dimension of c.
func Match(p *model.Product, c dto.FilterCriteria) bool {
	return matchSearch(p, c.SearchTerm) &&
		matchCategory(p, c.Category) &&
		matchPriceBand(p.UnitPrice, c.PriceBand) &&
		matchAvailability(p.AvailableForSale, c.Availability)
}

func matchSearch(p *model.Product, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if containsFold(p.Title, term) || containsFold(p.Description, term) || containsFold(p.Vendor, term) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

func matchCategory(p *model.Product, category string) bool {
	if category == "" || category == dto.All {
		return true
	}
	if strings.EqualFold(p.Category, category) {
		return true
	}
	lower := strings.ToLower(category)
	for _, tag := range p.Tags {
		if containsFold(tag, lower) {
			return true
		}
	}
	return false
}

// matchPriceBand keeps both ends of the middle bands closed, so 5000 falls in
// 1000-5000 and in 5000-15000.
func matchPriceBand(price decimal.Decimal, band string) bool {
	switch band {
	case "", dto.All:
		return true
	case dto.PriceUnder1000:
		return price.LessThan(thousand)
	case dto.Price1000To5000:
		return price.GreaterThanOrEqual(thousand) && price.LessThanOrEqual(fiveThousand)
	case dto.Price5000To15000:
		return price.GreaterThanOrEqual(fiveThousand) && price.LessThanOrEqual(fifteenThousand)
	case dto.PriceOver15000:
		return price.GreaterThan(fifteenThousand)
	default:
		return false
	}
}

func matchAvailability(available bool, want string) bool {
	switch want {
	case "", dto.All:
		return true
	case dto.Available:
		return available
	case dto.Unavailable:
		return !available
	default:
		return false
	}
}

// containsFold reports whether lowerNeedle occurs in s ignoring case.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
