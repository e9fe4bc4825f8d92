package utils

import (
	"testing"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePartnerGym(t *testing.T) {
	g := &domain.PartnerGym{
		State:             " sp ",
		ZipCode:           "01310-100",
		AvailableServices: []string{"musculação, pilates", "pilates", " ", "crossfit"},
	}

	NormalizePartnerGym(g)

	assert.Equal(t, "SP", g.State)
	assert.Equal(t, "01310100", g.ZipCode)
	assert.Equal(t, []string{"musculação", "pilates", "crossfit"}, g.AvailableServices)
}

func TestSplitServicesEmpty(t *testing.T) {
	assert.Equal(t, []string{}, SplitServices())
	assert.Equal(t, []string{}, SplitServices(" , "))
}

func TestPriceToCents(t *testing.T) {
	tests := []struct {
		reais   float64
		want    int64
		wantErr bool
	}{
		{19.99, 1999, false},
		{10.01, 1001, false},
		{10, 0, true},
		{9.5, 0, true},
		{-20, 0, true},
	}

	for _, tt := range tests {
		got, err := PriceToCents(tt.reais)
		if tt.wantErr {
			assert.Error(t, err, tt.reais)
			continue
		}
		require.NoError(t, err, tt.reais)
		assert.Equal(t, tt.want, got, tt.reais)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "49.90", domain.FormatCents(4990))
	assert.Equal(t, "0.05", domain.FormatCents(5))
	assert.Equal(t, "-1.50", domain.FormatCents(-150))
}
