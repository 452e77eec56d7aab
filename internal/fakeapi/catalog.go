package fakeapi

import "github.com/shopspring/decimal"

func synapses(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// SampleProducts returns a small catalog mirroring the production data shape,
// including one item that is not for sale.
func SampleProducts() []Product {
	return []Product{
		{
			ID:          "854cef69-976d-4c2a-a18c-2aa45046c390",
			Title:       "+1 час в сутках",
			Category:    "софт-скил",
			Price:       synapses(750),
			Image:       "/5_Dots.svg",
			Description: "Если планируете решать задачи в тренажёре, берите два.",
		},
		{
			ID:          "c101ab44-ed99-4a54-990d-47aa2bb4e7d9",
			Title:       "HEX-леденец",
			Category:    "другое",
			Price:       synapses(1450),
			Image:       "/Shell.svg",
			Description: "Лизните этот леденец, чтобы мгновенно запоминать и узнавать любой цветовой код CSS.",
		},
		{
			ID:          "b06cde61-912f-4663-9751-09956c0eed67",
			Title:       "Мамка-таймер",
			Category:    "софт-скил",
			Image:       "/Asterisk_2.svg",
			Description: "Будет стоять над душой и не давать прокрастинировать.",
		},
		{
			ID:          "412bcf81-7e75-4e70-bdb9-d3c73c9803b7",
			Title:       "Фреймворк куки судьбы",
			Category:    "дополнительное",
			Price:       synapses(2500),
			Image:       "/Soft_Flower.svg",
			Description: "Откройте эти куки, чтобы узнать, какой фреймворк вы должны изучить дальше.",
		},
	}
}
