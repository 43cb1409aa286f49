package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/scytherma/loginshp-sub000/internal/calculator"
	"github.com/scytherma/loginshp-sub000/internal/money"
	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

// CalculationRecorder counts calculator results.
type CalculationRecorder interface {
	RecordCalculation(platform, status string)
}

// PricingHandler serves the Shopee and Mercado Livre calculators.
type PricingHandler struct {
	recorder CalculationRecorder // optional
}

func NewPricingHandler(recorder CalculationRecorder) *PricingHandler {
	return &PricingHandler{recorder: recorder}
}

type extraCostRequest struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// calculatorRequest carries the fields as the user typed them; amounts are
// parsed with money.Parse.
type calculatorRequest struct {
	ProductCost      string             `json:"product_cost"`
	Multiplier       int                `json:"multiplier"`
	TaxRate          string             `json:"tax_rate"`
	VariableExpenses string             `json:"variable_expenses"`
	TargetMargin     float64            `json:"target_margin"`
	ExtraCosts       []extraCostRequest `json:"extra_costs"`
	// SalePrice, when set, also reports the profit at this price.
	SalePrice string `json:"sale_price"`
}

type shopeeRequest struct {
	calculatorRequest
	FreeShippingProgram bool `json:"free_shipping_program"`
}

type mercadoLivreRequest struct {
	calculatorRequest
	Category string `json:"category"`
	Listing  string `json:"listing"`
	// Either an explicit shipping tier...
	PriceBracket string `json:"price_bracket"`
	Weight       string `json:"weight"`
	// ...or the package weight, with the tier chosen from the solved price.
	WeightGrams *float64 `json:"weight_grams"`
}

type pricingResponse struct {
	Input         pricing.Input           `json:"input"`
	Result        pricing.Result          `json:"result"`
	View          calculator.View         `json:"view"`
	MarginPercent float64                 `json:"margin_percent"`
	AtPrice       *atPriceResponse        `json:"at_price,omitempty"`
	Commission    *pricing.CommissionTier `json:"commission,omitempty"`
	Shipping      *pricing.ShippingTier   `json:"shipping,omitempty"`
	Error         string                  `json:"error,omitempty"`
}

type atPriceResponse struct {
	Result        pricing.Result  `json:"result"`
	View          calculator.View `json:"view"`
	MarginPercent float64         `json:"margin_percent"`
}

func newSession(fs pricing.FeeSchedule, req calculatorRequest) *calculator.Session {
	s := calculator.New(fs)
	s.SetProductCost(req.ProductCost)
	s.SetTaxRate(req.TaxRate)
	s.SetVariableExpenses(req.VariableExpenses)
	s.SetTargetMargin(req.TargetMargin)
	if req.Multiplier > 1 {
		s.SetMultiplier(req.Multiplier)
	}
	for _, ec := range req.ExtraCosts {
		s.AddExtraCost(strings.TrimSpace(ec.Label), ec.Value, pricing.Unit(ec.Unit))
	}
	return s
}

func (h *PricingHandler) writePricing(w http.ResponseWriter, s *calculator.Session, req calculatorRequest, resp pricingResponse) {
	r := s.Result()
	if h.recorder != nil {
		h.recorder.RecordCalculation(string(r.Platform), string(r.Status))
	}
	resp.Input = s.Input()
	resp.Result = r
	resp.View = s.View()
	resp.MarginPercent = r.MarginPercent()

	if strings.TrimSpace(req.SalePrice) != "" {
		at := pricing.ProfitAt(resp.Input, s.Schedule(), money.Parse(req.SalePrice))
		resp.AtPrice = &atPriceResponse{Result: at, View: calculator.Render(at), MarginPercent: at.MarginPercent()}
	}

	status := http.StatusOK
	switch err := r.Err(); {
	case errors.Is(err, pricing.ErrOutOfRange):
		status = http.StatusUnprocessableEntity
		resp.Error = "amount_out_of_range"
	case err != nil:
		status = http.StatusUnprocessableEntity
		resp.Error = "deductions_too_high"
	}
	writeJSON(w, status, resp)
}

// Shopee handles POST /api/pricing/shopee.
func (h *PricingHandler) Shopee(w http.ResponseWriter, r *http.Request) {
	var req shopeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	s := newSession(pricing.Shopee{FreeShippingProgram: req.FreeShippingProgram}, req.calculatorRequest)
	h.writePricing(w, s, req.calculatorRequest, pricingResponse{})
}

// MercadoLivre handles POST /api/pricing/mercadolivre.
func (h *PricingHandler) MercadoLivre(w http.ResponseWriter, r *http.Request) {
	var req mercadoLivreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	commission := pricing.CommissionTier{Category: pricing.Category(req.Category), Listing: pricing.Listing(req.Listing)}
	if req.Listing == "" {
		commission.Listing = pricing.ListingClassico
	}
	if _, err := pricing.MercadoLivreCommission(commission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_commission_tier")
		return
	}

	var (
		schedule pricing.MercadoLivre
		err      error
	)
	if req.WeightGrams != nil {
		if *req.WeightGrams < 0 {
			writeError(w, http.StatusBadRequest, "invalid_weight")
			return
		}
		schedule, err = pricing.NewMercadoLivre(commission, pricing.SuggestShipping(*req.WeightGrams, 0))
	} else {
		schedule, err = pricing.NewMercadoLivre(commission, pricing.ShippingTier{
			Price:  pricing.PriceBracket(req.PriceBracket),
			Weight: pricing.WeightBracket(req.Weight),
		})
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_shipping_tier")
		return
	}

	s := newSession(schedule, req.calculatorRequest)
	if req.WeightGrams != nil {
		// the price bracket depends on the solved price
		_, resolved, err := pricing.ComputeMercadoLivreAuto(s.Input(), commission, *req.WeightGrams)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_shipping_tier")
			return
		}
		schedule = resolved
		s.SetSchedule(schedule)
	}

	ct, st := schedule.Commission(), schedule.Shipping()
	h.writePricing(w, s, req.calculatorRequest, pricingResponse{Commission: &ct, Shipping: &st})
}

type tablesResponse struct {
	Shopee struct {
		CommissionRate             float64 `json:"commission_rate"`
		FreeShippingCommissionRate float64 `json:"free_shipping_commission_rate"`
		FixedFee                   float64 `json:"fixed_fee"`
	} `json:"shopee"`
	MercadoLivre struct {
		Categories            []pricing.CategoryInfo `json:"categories"`
		Weights               []pricing.WeightInfo   `json:"weights"`
		FreeShippingThreshold float64                `json:"free_shipping_threshold"`
	} `json:"mercadolivre"`
}

// Tables handles GET /api/pricing/tables.
func (h *PricingHandler) Tables(w http.ResponseWriter, r *http.Request) {
	var resp tablesResponse
	resp.Shopee.CommissionRate = pricing.Shopee{}.CommissionRate()
	resp.Shopee.FreeShippingCommissionRate = pricing.Shopee{FreeShippingProgram: true}.CommissionRate()
	resp.Shopee.FixedFee = pricing.ShopeeFixedFee
	resp.MercadoLivre.Categories = pricing.Categories()
	resp.MercadoLivre.Weights = pricing.WeightBrackets()
	resp.MercadoLivre.FreeShippingThreshold = pricing.FreeShippingThreshold

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, resp)
}
