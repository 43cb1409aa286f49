package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/scytherma/loginshp-sub000/internal/pricing"
	"github.com/scytherma/loginshp-sub000/pkg/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseExtra(t *testing.T) {
	tests := []struct {
		in        string
		label     string
		raw       string
		unit      pricing.Unit
		expectErr bool
	}{
		{"Embalagem=2,50", "Embalagem", "2,50", pricing.UnitCurrency, false},
		{"Perdas=5%", "Perdas", "5", pricing.UnitPercentage, false},
		{"a=b=3", "a=b", "3", pricing.UnitCurrency, false},
		{"Embalagem", "", "", "", true},
		{"Embalagem=", "", "", "", true},
	}
	for _, tt := range tests {
		label, raw, unit, err := parseExtra(tt.in)
		if tt.expectErr {
			if err == nil {
				t.Errorf("parseExtra(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || label != tt.label || raw != tt.raw || unit != tt.unit {
			t.Errorf("parseExtra(%q) = %q, %q, %q, %v", tt.in, label, raw, unit, err)
		}
	}
}

func TestShopeeCmd_Text(t *testing.T) {
	out, err := run(t, "shopee", "--cost", "50", "--margin", "20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "R$ 81,82") {
		t.Errorf("expected the solved price in output:\n%s", out)
	}
}

func TestShopeeCmd_JSON(t *testing.T) {
	out, err := run(t, "shopee", "--json", "-c", "100", "--multiplier", "2", "--tax", "6",
		"-e", "Embalagem=2,50", "-e", "Perdas=5%", "--frete-gratis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got calcOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(got.Result.TotalProductCost-212.5) > 1e-9 {
		t.Errorf("unexpected total cost %v", got.Result.TotalProductCost)
	}
	if math.Abs(got.Result.SalePrice-(212.5+4)/(1-0.20-0.06)) > 1e-9 {
		t.Errorf("unexpected sale price %v", got.Result.SalePrice)
	}
}

func TestShopeeCmd_NaNMarginTreatedAsZero(t *testing.T) {
	out, err := run(t, "shopee", "--json", "-c", "50", "-m", "NaN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got calcOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Input.TargetMarginPercent != 0 || got.Result.Status != pricing.StatusOK {
		t.Errorf("unexpected output %+v", got)
	}
}

func TestShopeeCmd_InvalidReturnsError(t *testing.T) {
	out, err := run(t, "shopee", "-c", "50", "--tax", "50", "-m", "40")
	if !errors.Is(err, pricing.ErrDeductionsTooHigh) {
		t.Fatalf("expected ErrDeductionsTooHigh, got %v", err)
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("expected the explanation in output:\n%s", out)
	}
}

func TestShopeeCmd_AtPrice(t *testing.T) {
	out, err := run(t, "shopee", "-c", "50", "--at-price", "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 - 14 - 4 - 50
	if !strings.Contains(out, "R$ 32,00") {
		t.Errorf("expected the profit at R$ 100,00:\n%s", out)
	}
}

func TestShopeeCmd_RequiresCost(t *testing.T) {
	if _, err := run(t, "shopee"); err == nil {
		t.Error("expected an error without --cost")
	}
}

func TestMercadoLivreCmd_AutoShipping(t *testing.T) {
	out, err := run(t, "ml", "--json", "-c", "100", "--category", "casa-moveis-decoracao", "--weight-grams", "800")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got calcOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(got.Result.SalePrice-(100+22.95)/(1-0.115)) > 1e-9 {
		t.Errorf("unexpected sale price %v", got.Result.SalePrice)
	}
}

func TestMercadoLivreCmd_ExplicitTier(t *testing.T) {
	out, err := run(t, "mercadolivre", "-c", "100", "--category", "acessorios-veiculos",
		"--price-bracket", "acima-79", "--weight", "2-5kg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "acima-79 / 2-5kg") || !strings.Contains(out, "12%") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMercadoLivreCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown category", []string{"ml", "-c", "10", "--category", "nope", "--weight-grams", "100"}},
		{"no shipping", []string{"ml", "-c", "10", "--category", "moda"}},
		{"unknown weight", []string{"ml", "-c", "10", "--category", "moda", "--weight", "1t"}},
		{"both weights", []string{"ml", "-c", "10", "--category", "moda", "--weight", "1-2kg", "--weight-grams", "100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDRECmd(t *testing.T) {
	out, err := run(t, "dre", "--receita", "10.000,00", "--cmv", "4000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "R$ 6.000,00") {
		t.Errorf("expected gross profit in output:\n%s", out)
	}
}

func TestTablesCmd_JSON(t *testing.T) {
	out, err := run(t, "tabelas", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		MercadoLivre struct {
			Categories []pricing.CategoryInfo `json:"categories"`
		} `json:"mercadolivre"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.MercadoLivre.Categories) != 10 {
		t.Errorf("expected 10 categories, got %d", len(got.MercadoLivre.Categories))
	}
}

func TestFormatRate(t *testing.T) {
	if got := formatRate(0.115); got != "11,5%" {
		t.Errorf("formatRate(0.115) = %q", got)
	}
	if got := formatRate(0.14); got != "14%" {
		t.Errorf("formatRate(0.14) = %q", got)
	}
}

func TestTokenCmd_VerifiesWithSameSecret(t *testing.T) {
	out, err := run(t, "token", "--secret", "test-secret", "--sub", "user-42", "--email", "a@b.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := auth.VerifyToken(strings.TrimSpace(out), []byte("test-secret"))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "user-42" || claims.Email != "a@b.c" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenCmd_NoSecret(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "")
	if _, err := run(t, "token"); err == nil {
		t.Error("expected an error without a secret")
	}
}
