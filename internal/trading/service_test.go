package trading

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestQuoteBuy(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		price        string
		wantQuantity string
		wantTotal    string
		wantErr      string
	}{
		{
			name:         "exact multiple",
			amount:       "47",
			price:        "0.20",
			wantQuantity: "235",
			wantTotal:    "47.00",
		},
		{
			name:         "remainder dropped",
			amount:       "10",
			price:        "0.1842",
			wantQuantity: "54",
			wantTotal:    "9.95",
		},
		{
			name:         "single unit",
			amount:       "0.20",
			price:        "0.1842",
			wantQuantity: "1",
			wantTotal:    "0.18",
		},
		{
			name:    "below one unit",
			amount:  "0.10",
			price:   "0.1842",
			wantErr: "minimum purchase amount is 0.18 for 1 kWh",
		},
		{
			name:    "zero amount",
			amount:  "0",
			price:   "0.20",
			wantErr: "amount must be positive",
		},
		{
			name:    "negative amount",
			amount:  "-5",
			price:   "0.20",
			wantErr: "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quantity, total, err := quoteBuy(d(tt.amount), d(tt.price))
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, d(tt.wantQuantity).Equal(quantity), "quantity = %s, want %s", quantity, tt.wantQuantity)
			assert.True(t, d(tt.wantTotal).Equal(total), "total = %s, want %s", total, tt.wantTotal)
		})
	}
}

func TestQuoteSell(t *testing.T) {
	tests := []struct {
		name           string
		quantity       string
		price          string
		wantGross      string
		wantCommission string
		wantNet        string
		wantErr        string
	}{
		{
			// gross, commission and net are each rounded to cents on their own:
			// 1.842 -> 1.84, 1.84*0.05=0.092 -> 0.09, 1.84-0.09 = 1.75.
			name:           "per-step rounding",
			quantity:       "10",
			price:          "0.1842",
			wantGross:      "1.84",
			wantCommission: "0.09",
			wantNet:        "1.75",
		},
		{
			name:           "round figures",
			quantity:       "100",
			price:          "0.20",
			wantGross:      "20.00",
			wantCommission: "1.00",
			wantNet:        "19.00",
		},
		{
			name:           "fractional quantity",
			quantity:       "2.5",
			price:          "0.1834",
			wantGross:      "0.46",
			wantCommission: "0.02",
			wantNet:        "0.44",
		},
		{
			name:     "zero quantity",
			quantity: "0",
			price:    "0.20",
			wantErr:  "amount must be positive",
		},
		{
			name:     "negative quantity",
			quantity: "-1",
			price:    "0.20",
			wantErr:  "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, commission, net, err := quoteSell(d(tt.quantity), d(tt.price))
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, d(tt.wantGross).Equal(gross), "gross = %s, want %s", gross, tt.wantGross)
			assert.True(t, d(tt.wantCommission).Equal(commission), "commission = %s, want %s", commission, tt.wantCommission)
			assert.True(t, d(tt.wantNet).Equal(net), "net = %s, want %s", net, tt.wantNet)
		})
	}
}

func TestQuoteSellNetNeverExceedsGross(t *testing.T) {
	gross, commission, net, err := quoteSell(d("123.456"), d("0.1867"))
	assert.NoError(t, err)
	assert.True(t, net.LessThan(gross))
	assert.True(t, gross.Sub(commission).Equal(net))
}
