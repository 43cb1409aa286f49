package calculator

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

func TestSession_NewIsCleared(t *testing.T) {
	s := New(pricing.Shopee{})
	if s.Input().Multiplier != 1 {
		t.Errorf("expected multiplier 1, got %d", s.Input().Multiplier)
	}
	if r := s.Result(); r.Status != pricing.StatusEmpty || r.SalePrice != 0 {
		t.Errorf("expected empty result, got %+v", r)
	}
}

func TestSession_RecomputesOnEveryMutation(t *testing.T) {
	s := New(pricing.Shopee{})
	s.SetProductCost("R$ 50,00")
	first := s.Result().SalePrice
	if first <= 0 {
		t.Fatalf("expected a price after setting the cost, got %v", first)
	}

	s.SetTargetMargin(20)
	if s.Result().SalePrice <= first {
		t.Errorf("expected price to rise with margin, got %v", s.Result().SalePrice)
	}
	withMargin := s.Result().SalePrice

	s.SetSchedule(pricing.Shopee{FreeShippingProgram: true})
	if s.Result().SalePrice <= withMargin {
		t.Errorf("expected higher price with 20%% commission, got %v", s.Result().SalePrice)
	}
}

func TestSession_MalformedInputIsZero(t *testing.T) {
	s := New(pricing.Shopee{})
	s.SetProductCost("abc")
	s.SetTaxRate("??")
	s.SetVariableExpenses("-4")

	in := s.Input()
	if in.ProductCost != 0 || in.TaxRate != 0 || in.VariableExpenses != 0 {
		t.Errorf("expected zeroed fields, got %+v", in)
	}
	r := s.Result()
	if math.IsNaN(r.SalePrice) || r.SalePrice != 0 {
		t.Errorf("expected zero price, got %v", r.SalePrice)
	}
}

func TestSession_TaxAndMarginClamped(t *testing.T) {
	s := New(pricing.Shopee{})
	s.SetTaxRate("250")
	s.SetTargetMargin(-5)
	if got := s.Input().TaxRate; got != 100 {
		t.Errorf("TaxRate: want 100, got %v", got)
	}
	if got := s.Input().TargetMarginPercent; got != 0 {
		t.Errorf("TargetMarginPercent: want 0, got %v", got)
	}
	s.SetTargetMargin(180)
	if got := s.Input().TargetMarginPercent; got != 100 {
		t.Errorf("TargetMarginPercent: want 100, got %v", got)
	}
}

func TestSession_NonFiniteMarginStoredAsZero(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := New(pricing.Shopee{})
		s.SetProductCost("50")
		s.SetTargetMargin(v)

		in := s.Input()
		if in.TargetMarginPercent != 0 {
			t.Errorf("SetTargetMargin(%v): stored %v, want 0", v, in.TargetMarginPercent)
		}
		if _, err := json.Marshal(in); err != nil {
			t.Errorf("SetTargetMargin(%v): input no longer encodes: %v", v, err)
		}
		if s.Result().Status != pricing.StatusOK {
			t.Errorf("SetTargetMargin(%v): status %s", v, s.Result().Status)
		}
	}
}

func TestSession_MultiplierNeverBelowOne(t *testing.T) {
	s := New(pricing.Shopee{})
	s.DecrementMultiplier()
	s.DecrementMultiplier()
	if got := s.Input().Multiplier; got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	s.IncrementMultiplier()
	s.IncrementMultiplier()
	if got := s.Input().Multiplier; got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	s.DecrementMultiplier()
	if got := s.Input().Multiplier; got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	s.SetMultiplier(-7)
	if got := s.Input().Multiplier; got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestSession_TotalCostFollowsMultiplier(t *testing.T) {
	s := New(pricing.Shopee{})
	s.SetProductCost("10")
	s.SetVariableExpenses("2")
	s.IncrementMultiplier()
	s.IncrementMultiplier()
	if got := s.Result().TotalProductCost; got != 32 {
		t.Errorf("expected 32, got %v", got)
	}
}

func TestSession_ExtraCostRows(t *testing.T) {
	s := New(pricing.Shopee{})
	s.SetProductCost("100")
	a := s.AddExtraCost("Embalagem", "5,00", pricing.UnitCurrency)
	b := s.AddExtraCost("Perdas", "10", pricing.UnitPercentage)
	c := s.AddExtraCost("Etiqueta", "1", "qualquer")

	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("unexpected indexes %d %d %d", a, b, c)
	}
	if got := s.Result().TotalProductCost; got != 116 {
		t.Fatalf("expected 116, got %v", got)
	}

	if err := s.RemoveExtraCost(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := s.Input()
	if len(in.ExtraCosts) != 2 || in.ExtraCosts[0].Label != "Embalagem" || in.ExtraCosts[1].Label != "Etiqueta" {
		t.Errorf("unexpected rows after removal: %+v", in.ExtraCosts)
	}
	if got := s.Result().TotalProductCost; got != 106 {
		t.Errorf("expected 106, got %v", got)
	}

	if err := s.RemoveExtraCost(5); !errors.Is(err, ErrNoSuchExtraCost) {
		t.Errorf("expected ErrNoSuchExtraCost, got %v", err)
	}
}

func TestSession_InputIsACopy(t *testing.T) {
	s := New(pricing.Shopee{})
	s.AddExtraCost("Embalagem", "5", pricing.UnitCurrency)
	in := s.Input()
	in.ExtraCosts[0].Value = 999
	if s.Input().ExtraCosts[0].Value != 5 {
		t.Error("mutating the snapshot changed the session")
	}
}

func TestSession_ClearResetsEverything(t *testing.T) {
	s := New(pricing.Shopee{FreeShippingProgram: true})
	s.SetProductCost("50")
	s.SetTaxRate("6")
	s.SetVariableExpenses("3")
	s.SetTargetMargin(30)
	s.IncrementMultiplier()
	s.AddExtraCost("Embalagem", "2", pricing.UnitCurrency)

	s.Clear()

	in := s.Input()
	if in.ProductCost != 0 || in.TaxRate != 0 || in.VariableExpenses != 0 || in.TargetMarginPercent != 0 {
		t.Errorf("expected zeroed input, got %+v", in)
	}
	if in.Multiplier != 1 || len(in.ExtraCosts) != 0 {
		t.Errorf("expected multiplier 1 and no rows, got %+v", in)
	}
	if r := s.Result(); r.SalePrice != 0 || r.ProfitPerSale != 0 {
		t.Errorf("expected zero result, got %+v", r)
	}
	if s.Schedule() != (pricing.Shopee{FreeShippingProgram: true}) {
		t.Error("schedule should survive a clear")
	}
}

func TestSession_InstancesAreIndependent(t *testing.T) {
	a := New(pricing.Shopee{})
	b := New(pricing.Shopee{})

	a.SetProductCost("50")
	a.IncrementMultiplier()

	if b.Input().ProductCost != 0 || b.Input().Multiplier != 1 {
		t.Errorf("session b changed: %+v", b.Input())
	}
	if b.Result().SalePrice != 0 {
		t.Errorf("session b has a price: %v", b.Result().SalePrice)
	}
}

func TestRender_Formats(t *testing.T) {
	s := New(pricing.Shopee{})
	s.SetProductCost("50")
	s.SetTargetMargin(20)
	v := s.View()

	if v.Status != pricing.StatusOK {
		t.Errorf("expected ok, got %q", v.Status)
	}
	if v.SalePrice != "R$ 81,82" {
		t.Errorf("SalePrice: got %q", v.SalePrice)
	}
	if v.TotalProductCost != "R$ 50,00" {
		t.Errorf("TotalProductCost: got %q", v.TotalProductCost)
	}
	if v.MarkupMultiple != "1,64x" {
		t.Errorf("MarkupMultiple: got %q", v.MarkupMultiple)
	}
	if v.Message != "" {
		t.Errorf("unexpected message %q", v.Message)
	}
}

func TestRender_InvalidCarriesMessage(t *testing.T) {
	v := Render(pricing.Result{Status: pricing.StatusInvalid})
	if v.Message == "" {
		t.Error("expected a message for an invalid result")
	}
	if v.SalePrice != "R$ 0,00" {
		t.Errorf("SalePrice: got %q", v.SalePrice)
	}
}
