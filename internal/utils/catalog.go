package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

// NormalizePartnerGym upper-cases the state, keeps only the digits of the zip
// code and drops blank or repeated services.
func NormalizePartnerGym(g *domain.PartnerGym) {
	g.State = strings.ToUpper(strings.TrimSpace(g.State))
	g.ZipCode = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, g.ZipCode)
	g.AvailableServices = SplitServices(g.AvailableServices...)
}

// SplitServices flattens comma separated service lists, trimming each entry
// and keeping the first occurrence of every name.
func SplitServices(lists ...string) []string {
	services := make([]string, 0)
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, s := range strings.Split(list, ",") {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			services = append(services, s)
		}
	}
	return services
}

var ErrPriceTooLow = fmt.Errorf("price must be greater than R$ %s", domain.FormatCents(domain.MinSingleWorkoutPrice))

// PriceToCents converts a price in reais to cents, rounding to the nearest cent.
func PriceToCents(reais float64) (int64, error) {
	if math.IsNaN(reais) || math.IsInf(reais, 0) {
		return 0, errors.New("invalid price")
	}
	cents := int64(math.Round(reais * 100))
	if cents <= domain.MinSingleWorkoutPrice {
		return 0, ErrPriceTooLow
	}
	return cents, nil
}
