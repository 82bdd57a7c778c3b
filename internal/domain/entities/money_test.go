package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyScale(t *testing.T) {
	tests := []struct {
		code    string
		want    int
		wantErr bool
	}{
		{code: "USD", want: 2},
		{code: "BRL", want: 2},
		{code: "JPY", want: 0},
		{code: "KWD", want: 3},
		{code: "ZZZ", wantErr: true},
		{code: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := CurrencyScale(tt.code)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.code)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("CurrencyScale(%q) = %d, %v; want %d", tt.code, got, err, tt.want)
			}
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	t.Run("usd", func(t *testing.T) {
		got, err := ToMinorUnits(decimal.RequireFromString("50.00"), "USD")
		if err != nil || got != 5000 {
			t.Fatalf("got %d, %v", got, err)
		}
	})

	t.Run("over scaled", func(t *testing.T) {
		if _, err := ToMinorUnits(decimal.RequireFromString("10.001"), "USD"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		amount := FromMinorUnits(1999, "USD")
		if !amount.Equal(decimal.RequireFromString("19.99")) {
			t.Fatalf("unexpected amount %s", amount)
		}
	})
}

func TestPaymentMethodSet_Active(t *testing.T) {
	set := PaymentMethodSet{Methods: []PaymentMethod{
		{GatewayMethodToken: "a"},
		{GatewayMethodToken: "b", Removed: true},
		{GatewayMethodToken: "c"},
	}}
	active := set.Active()
	if len(active) != 2 || active[0].GatewayMethodToken != "a" || active[1].GatewayMethodToken != "c" {
		t.Fatalf("unexpected active methods: %+v", active)
	}
}
