package coffer_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
)

func TestFilterCandidates(t *testing.T) {
	rq := require.New(t)

	mapping := []entity.Item{
		{ID: 1, Name: "Rune sword", Limit: 100},
		{ID: 2, Name: "No limit", Limit: 0},
		{ID: 3, Name: "Negative limit", Limit: -1},
		{ID: 4, Name: "Missing price", Limit: 10},
		{ID: 5, Name: "Cheap", Limit: 10},
		{ID: 6, Name: "Infinite", Limit: 10},
		{ID: 7, Name: "Old School  Bond", Limit: 10},
		{ID: 8, Name: "Banned by id", Limit: 10},
		{ID: 9, Name: "Dragon platebody", Limit: 8},
	}
	latest := map[int64]entity.PricePoint{
		1: {High: 1200, Low: 1000},
		2: {High: 5000, Low: 4000},
		3: {High: 5000, Low: 4000},
		5: {High: 50, Low: 40},
		6: {High: math.Inf(1), Low: 1000},
		7: {High: 7_000_000, Low: 6_900_000},
		8: {High: 5000, Low: 4000},
		9: {High: 0, Low: 4000},
	}

	ineligible := entity.NewIneligibilitySet()
	ineligible.AddName("old school bond")
	ineligible.AddID(8)

	candidates, stats := coffer.FilterCandidates(mapping, latest, map[int64]entity.VolumePoint{
		1: {HighPriceVolume: 30, LowPriceVolume: 70},
	}, ineligible, coffer.FilterRules{MinBuyPrice: 100})

	rq.Len(candidates, 1)
	rq.Equal(int64(1), candidates[0].Item.ID)
	rq.Equal(int64(1000), candidates[0].BuyPrice)
	rq.Equal(int64(1200), candidates[0].SellPrice)
	rq.Equal(int64(70), candidates[0].Volume)
	rq.False(candidates[0].VolumeEstimated)

	rq.Equal(coffer.FilterStats{
		Total:       9,
		Ineligible:  2,
		Untradable:  2,
		NoPrice:     3,
		BelowMinBuy: 1,
		Passed:      1,
	}, stats)

	for _, c := range candidates {
		rq.Positive(c.Item.Limit)
	}
}

func TestFilterCandidates_PriceOutOfRange(t *testing.T) {
	rq := require.New(t)

	mapping := []entity.Item{{ID: 1, Name: "Broken feed", Limit: 8}}
	latest := map[int64]entity.PricePoint{1: {High: 2e19, Low: 1e19}}

	candidates, stats := coffer.FilterCandidates(mapping, latest, nil, entity.NewIneligibilitySet(), coffer.FilterRules{MinBuyPrice: 100})

	rq.Empty(candidates)
	rq.Equal(1, stats.NoPrice)
	rq.Zero(stats.BelowMinBuy)
}

func TestFilterCandidates_EstimatedVolume(t *testing.T) {
	rq := require.New(t)

	mapping := []entity.Item{{ID: 1, Name: "Rune sword", Limit: 100}}
	latest := map[int64]entity.PricePoint{1: {High: 1200, Low: 1000}}

	candidates, _ := coffer.FilterCandidates(mapping, latest, nil, entity.NewIneligibilitySet(), coffer.FilterRules{
		MinBuyPrice:          100,
		MinTradingValue:      1_000_000_000,
		VolumeEstimateFactor: 5,
	})

	rq.Len(candidates, 1)
	rq.Equal(int64(500), candidates[0].Volume)
	rq.True(candidates[0].VolumeEstimated)
}

func TestFilterCandidates_MinTradingValue(t *testing.T) {
	rq := require.New(t)

	mapping := []entity.Item{
		{ID: 1, Name: "Liquid", Limit: 100},
		{ID: 2, Name: "Illiquid", Limit: 100},
	}
	latest := map[int64]entity.PricePoint{
		1: {High: 1200, Low: 1000},
		2: {High: 1200, Low: 1000},
	}
	volumes := map[int64]entity.VolumePoint{
		1: {HighPriceVolume: 2000},
		2: {LowPriceVolume: 10},
	}

	candidates, stats := coffer.FilterCandidates(mapping, latest, volumes, entity.NewIneligibilitySet(), coffer.FilterRules{
		MinBuyPrice:     100,
		MinTradingValue: 1_000_000,
	})

	rq.Len(candidates, 1)
	rq.Equal(int64(1), candidates[0].Item.ID)
	rq.Equal(1, stats.LowTradingValue)
}

func TestSortForEnrichment(t *testing.T) {
	rq := require.New(t)

	candidates := []entity.Candidate{
		{Item: entity.Item{ID: 3}, SellPrice: 100},
		{Item: entity.Item{ID: 1}, SellPrice: 900},
		{Item: entity.Item{ID: 2}, SellPrice: 100},
	}

	coffer.SortForEnrichment(candidates)

	rq.Equal(int64(1), candidates[0].Item.ID)
	rq.Equal(int64(2), candidates[1].Item.ID)
	rq.Equal(int64(3), candidates[2].Item.ID)
}
