package coffer

import (
	"math"
	"sort"

	"coffer_scanner/internal/domain/entity"
)

// FilterRules — пороги отбора кандидатов.
type FilterRules struct {
	MinBuyPrice          int64
	MinTradingValue      int64
	VolumeEstimateFactor int64
}

type FilterStats struct {
	Total           int `json:"total"`
	Ineligible      int `json:"ineligible"`
	Untradable      int `json:"untradable"`
	NoPrice         int `json:"noPrice"`
	BelowMinBuy     int `json:"belowMinBuy"`
	LowTradingValue int `json:"lowTradingValue"`
	Passed          int `json:"passed"`
}

// FilterCandidates применяет правила по порядку: неподходящие предметы, нет
// лимита GE, нет корректной пары high/low, low ниже MinBuyPrice. volumes == nil
// означает, что фид объёмов недоступен: объём оценивается как limit * factor.
func FilterCandidates(
	mapping []entity.Item,
	latest map[int64]entity.PricePoint,
	volumes map[int64]entity.VolumePoint,
	ineligible entity.IneligibilitySet,
	rules FilterRules,
) ([]entity.Candidate, FilterStats) {
	stats := FilterStats{Total: len(mapping)}
	candidates := make([]entity.Candidate, 0, len(mapping)/4)

	for _, item := range mapping {
		if ineligible.Excludes(item) {
			stats.Ineligible++
			continue
		}

		if !item.Tradable() {
			stats.Untradable++
			continue
		}

		price, ok := latest[item.ID]
		if !ok || !price.Usable() {
			stats.NoPrice++
			continue
		}

		buy, sell := int64(math.Round(price.Low)), int64(math.Round(price.High))
		if buy < rules.MinBuyPrice {
			stats.BelowMinBuy++
			continue
		}

		c := entity.Candidate{
			Item:      item,
			BuyPrice:  buy,
			SellPrice: sell,
		}

		if volumes == nil {
			c.Volume = int64(item.Limit) * max(rules.VolumeEstimateFactor, 1)
			c.VolumeEstimated = true
		} else {
			v := volumes[item.ID]
			c.Volume = max(v.HighPriceVolume, v.LowPriceVolume)

			if rules.MinTradingValue > 0 && c.Volume*buy < rules.MinTradingValue {
				stats.LowTradingValue++
				continue
			}
		}

		candidates = append(candidates, c)
	}

	stats.Passed = len(candidates)

	return candidates, stats
}

// SortForEnrichment ставит дорогие предметы первыми, чтобы прерванный запуск
// успел обработать самые ценные позиции.
func SortForEnrichment(candidates []entity.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SellPrice != candidates[j].SellPrice {
			return candidates[i].SellPrice > candidates[j].SellPrice
		}
		return candidates[i].Item.ID < candidates[j].Item.ID
	})
}
