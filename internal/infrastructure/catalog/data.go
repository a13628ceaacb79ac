package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/domain"
)

func defaultProducts() []domain.ProductDescriptor {
	return []domain.ProductDescriptor{
		{Key: "s02_3", DisplayName: "Soporte teja S02.3", SearchQuery: "soporte teja solar S02.3 Sunfer"},
		{Key: "s10", DisplayName: "Presor lateral S10", SearchQuery: "presor lateral solar S10"},
		{Key: "s11", DisplayName: "Presor central S11", SearchQuery: "presor central solar S11"},
		{Key: "ug1", DisplayName: "Unión perfil UG1", SearchQuery: "union perfil UG1 Sunfer"},
		{Key: "g_union", DisplayName: "Unión perfil G", SearchQuery: "union perfil aluminio solar"},
		{Key: "g1_1230", DisplayName: "Perfil G1 1230 mm", SearchQuery: "perfil aluminio solar 1230mm"},
		{Key: "g1_1800", DisplayName: "Perfil G1 1800 mm", SearchQuery: "perfil aluminio solar 1800mm"},
		{Key: "g1_2350", DisplayName: "Perfil G1 2350 mm", SearchQuery: "perfil aluminio solar 2350mm"},
		{Key: "g1_3600", DisplayName: "Perfil G1 3600 mm", SearchQuery: "perfil aluminio solar 3600mm"},
		{Key: "g1_4400", DisplayName: "Perfil G1 4400 mm", SearchQuery: "perfil aluminio solar 4400mm"},
		{Key: "tapa", DisplayName: "Tapa terminal perfil", SearchQuery: "tapa terminal perfil solar"},
		{Key: "s13", DisplayName: "Tornillería inox M8", SearchQuery: "tornilleria acero inoxidable M8"},
	}
}

// Prices last reviewed by hand against the retailers' public listings.
func defaultFallback() domain.FallbackTable {
	return domain.FallbackTable{
		domain.SourceObramat: prices(map[domain.ProductKey]string{
			"s02_3": "8.50", "s10": "1.80", "s11": "1.80", "ug1": "3.50", "g_union": "3.50",
			"g1_1230": "8.99", "g1_1800": "14.00", "g1_2350": "17.95", "g1_3600": "30.99", "g1_4400": "35.00",
			"tapa": "0.75", "s13": "0.30",
		}),
		domain.SourceLeroy: prices(map[domain.ProductKey]string{
			"s02_3": "14.99", "s10": "2.50", "s11": "2.50", "ug1": "5.99", "g_union": "5.99",
			"g1_1230": "12.50", "g1_1800": "18.00", "g1_2350": "22.95", "g1_3600": "38.00", "g1_4400": "45.00",
			"tapa": "1.20", "s13": "0.50",
		}),
		domain.SourceAlacen: prices(map[domain.ProductKey]string{
			"s02_3": "7.90", "s10": "1.65", "s11": "1.65", "ug1": "3.20", "g_union": "3.20",
			"g1_1230": "7.50", "g1_1800": "12.50", "g1_2350": "16.50", "g1_3600": "28.00", "g1_4400": "33.00",
			"tapa": "0.60", "s13": "0.25",
		}),
	}
}

func prices(raw map[domain.ProductKey]string) map[domain.ProductKey]decimal.Decimal {
	out := make(map[domain.ProductKey]decimal.Decimal, len(raw))
	for k, v := range raw {
		out[k] = decimal.RequireFromString(v)
	}
	return out
}
