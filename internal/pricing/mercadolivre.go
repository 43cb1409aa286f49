package pricing

import (
	"fmt"
	"sort"
)

// Listing is the Mercado Livre ad type.
type Listing string

const (
	ListingClassico Listing = "classico"
	ListingPremium  Listing = "premium"
)

// Category is a Mercado Livre product category key.
type Category string

const (
	CategoryVehicleAccessories Category = "acessorios-veiculos"
	CategoryFoodAndDrinks      Category = "alimentos-bebidas"
	CategoryBeauty             Category = "beleza-cuidado-pessoal"
	CategoryToys               Category = "brinquedos-hobbies"
	CategoryHome               Category = "casa-moveis-decoracao"
	CategoryPhones             Category = "celulares-telefones"
	CategoryElectronics        Category = "eletronicos-audio-video"
	CategorySports             Category = "esportes-fitness"
	CategoryComputers          Category = "informatica"
	CategoryFashion            Category = "moda"
)

// CommissionTier selects one entry of the Mercado Livre commission table.
type CommissionTier struct {
	Category Category `json:"category"`
	Listing  Listing  `json:"listing"`
}

type categoryRates struct {
	name     string
	classico float64
	premium  float64
}

var mercadoLivreCommissions = map[Category]categoryRates{
	CategoryVehicleAccessories: {"Acessórios para Veículos", 0.12, 0.17},
	CategoryFoodAndDrinks:      {"Alimentos e Bebidas", 0.10, 0.15},
	CategoryBeauty:             {"Beleza e Cuidado Pessoal", 0.14, 0.19},
	CategoryToys:               {"Brinquedos e Hobbies", 0.115, 0.165},
	CategoryHome:               {"Casa, Móveis e Decoração", 0.115, 0.165},
	CategoryPhones:             {"Celulares e Telefones", 0.13, 0.18},
	CategoryElectronics:        {"Eletrônicos, Áudio e Vídeo", 0.13, 0.18},
	CategorySports:             {"Esportes e Fitness", 0.14, 0.19},
	CategoryComputers:          {"Informática", 0.11, 0.16},
	CategoryFashion:            {"Calçados, Roupas e Bolsas", 0.14, 0.19},
}

// MercadoLivreCommission looks up the commission rate for a tier.
func MercadoLivreCommission(t CommissionTier) (float64, error) {
	rates, ok := mercadoLivreCommissions[t.Category]
	if !ok {
		return 0, fmt.Errorf("pricing: unknown mercado livre category %q", t.Category)
	}
	switch t.Listing {
	case ListingClassico:
		return rates.classico, nil
	case ListingPremium:
		return rates.premium, nil
	}
	return 0, fmt.Errorf("pricing: unknown mercado livre listing %q", t.Listing)
}

// PriceBracket splits sales by the free-shipping threshold.
type PriceBracket string

const (
	PriceBelowThreshold PriceBracket = "abaixo-79"
	PriceAboveThreshold PriceBracket = "acima-79"
)

// FreeShippingThreshold is the sale price from which Mercado Livre charges
// the seller for free shipping.
const FreeShippingThreshold = 79.00

// WeightBracket is a shipping weight range key.
type WeightBracket string

type weightBracket struct {
	key      WeightBracket
	maxGrams float64
	cost     float64
}

// Ordered by weight; cost applies above the free-shipping threshold.
var mercadoLivreWeights = []weightBracket{
	{"ate-300g", 300, 19.95},
	{"300-500g", 500, 21.45},
	{"500g-1kg", 1000, 22.95},
	{"1-2kg", 2000, 24.95},
	{"2-5kg", 5000, 39.90},
	{"5-9kg", 9000, 44.90},
	{"9-13kg", 13000, 56.90},
	{"13-17kg", 17000, 64.90},
	{"17-23kg", 23000, 74.90},
	{"23-30kg", 30000, 84.90},
}

// ShippingTier selects one entry of the Mercado Livre shipping table.
type ShippingTier struct {
	Price  PriceBracket  `json:"price"`
	Weight WeightBracket `json:"weight"`
}

// MercadoLivreShipping looks up the flat shipping cost for a tier. Every
// weight below the threshold is subsidised by the platform and costs 0.
func MercadoLivreShipping(t ShippingTier) (float64, error) {
	var found *weightBracket
	for i := range mercadoLivreWeights {
		if mercadoLivreWeights[i].key == t.Weight {
			found = &mercadoLivreWeights[i]
			break
		}
	}
	if found == nil {
		return 0, fmt.Errorf("pricing: unknown weight bracket %q", t.Weight)
	}
	switch t.Price {
	case PriceBelowThreshold:
		return 0, nil
	case PriceAboveThreshold:
		return found.cost, nil
	}
	return 0, fmt.Errorf("pricing: unknown price bracket %q", t.Price)
}

// SuggestShipping picks the tier matching a package weight and a sale price.
// Weights above the heaviest bracket fall into it.
func SuggestShipping(weightGrams, salePrice float64) ShippingTier {
	tier := ShippingTier{Price: PriceBelowThreshold}
	if salePrice >= FreeShippingThreshold {
		tier.Price = PriceAboveThreshold
	}
	tier.Weight = mercadoLivreWeights[len(mercadoLivreWeights)-1].key
	for _, w := range mercadoLivreWeights {
		if weightGrams <= w.maxGrams {
			tier.Weight = w.key
			break
		}
	}
	return tier
}

// MercadoLivre is a resolved commission + shipping selection.
type MercadoLivre struct {
	commission CommissionTier
	shipping   ShippingTier
	rate       float64
	cost       float64
}

// NewMercadoLivre resolves both tiers against the fee tables.
func NewMercadoLivre(commission CommissionTier, shipping ShippingTier) (MercadoLivre, error) {
	rate, err := MercadoLivreCommission(commission)
	if err != nil {
		return MercadoLivre{}, err
	}
	cost, err := MercadoLivreShipping(shipping)
	if err != nil {
		return MercadoLivre{}, err
	}
	return MercadoLivre{commission: commission, shipping: shipping, rate: rate, cost: cost}, nil
}

func (MercadoLivre) Platform() Platform { return PlatformMercadoLivre }

func (m MercadoLivre) CommissionRate() float64 { return m.rate }

// FixedFee is the shipping cost, charged flat regardless of price.
func (m MercadoLivre) FixedFee() float64 { return m.cost }

func (m MercadoLivre) Commission() CommissionTier { return m.commission }

func (m MercadoLivre) Shipping() ShippingTier { return m.shipping }

// ComputeMercadoLivreAuto solves the price with the shipping tier that
// matches the resulting price: a price that reaches the free-shipping
// threshold is re-solved with the paid bracket for the package weight.
func ComputeMercadoLivreAuto(in Input, commission CommissionTier, weightGrams float64) (Result, MercadoLivre, error) {
	below, err := NewMercadoLivre(commission, SuggestShipping(weightGrams, 0))
	if err != nil {
		return Result{}, MercadoLivre{}, err
	}
	res := Compute(in, below)
	if res.Status != StatusOK || res.SalePrice < FreeShippingThreshold {
		return res, below, nil
	}

	// Paid shipping only raises the price, so it stays above the threshold.
	above, err := NewMercadoLivre(commission, SuggestShipping(weightGrams, res.SalePrice))
	if err != nil {
		return Result{}, MercadoLivre{}, err
	}
	return Compute(in, above), above, nil
}

// CategoryInfo describes one row of the commission table.
type CategoryInfo struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Classico float64  `json:"classico"`
	Premium  float64  `json:"premium"`
}

// Categories lists the commission table sorted by key.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(mercadoLivreCommissions))
	for k, v := range mercadoLivreCommissions {
		out = append(out, CategoryInfo{Category: k, Name: v.name, Classico: v.classico, Premium: v.premium})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// WeightInfo describes one row of the shipping table.
type WeightInfo struct {
	Weight   WeightBracket `json:"weight"`
	MaxGrams float64       `json:"max_grams"`
	Cost     float64       `json:"cost"`
}

// WeightBrackets lists the shipping table from lightest to heaviest.
func WeightBrackets() []WeightInfo {
	out := make([]WeightInfo, len(mercadoLivreWeights))
	for i, w := range mercadoLivreWeights {
		out[i] = WeightInfo{Weight: w.key, MaxGrams: w.maxGrams, Cost: w.cost}
	}
	return out
}
