package coffer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/infrastructure/cache"
)

func TestIneligibilityResolver_Resolve(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	links := fakeLinks{
		"Grid_Master":         {"Old school bond", "Some quest", "Dragon claws"},
		"Leagues_Reward_Shop": {"Trailblazer outfit"},
	}

	settings := coffer.DefaultSettings()
	settings.ReferencePages = []string{"Grid_Master", "Leagues_Reward_Shop", "Missing_Page"}

	memory := cache.NewMemory(time.Hour)
	resolver := coffer.NewIneligibilityResolver(links, memory, settings)

	mapping := []entity.Item{
		{ID: 99, Name: "Old School Bond"},
		{ID: 13652, Name: "Dragon claws"},
		{ID: 4151, Name: "Abyssal whip"},
		{ID: 31245, Name: "Unlisted reward"},
	}

	set, err := resolver.Resolve(ctx, mapping)
	rq.NoError(err)

	rq.True(set.HasID(99))
	rq.True(set.HasID(13652))
	rq.True(set.HasID(31245))
	rq.True(set.HasID(31585))
	rq.False(set.HasID(4151))

	rq.True(set.HasName("dragon claws"))
	rq.True(set.HasName("Belle's Folly"))
	rq.False(set.HasName("some quest"), "links absent from the mapping are ignored")
	rq.False(set.HasName("trailblazer outfit"))

	// одна страница недоступна: неполный результат в кеш не попадает
	rq.Equal(0, memory.ItemCount())
}

func TestIneligibilityResolver_UsesCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	settings := coffer.DefaultSettings()
	settings.ReferencePages = []string{"Grid_Master"}

	memory := cache.NewMemory(time.Hour)

	first := coffer.NewIneligibilityResolver(fakeLinks{"Grid_Master": {"Dragon claws"}}, memory, settings)
	_, err := first.Resolve(ctx, nil)
	rq.NoError(err)
	rq.Equal(1, memory.ItemCount())

	// вики недоступна, но имена уже в кеше
	second := coffer.NewIneligibilityResolver(fakeLinks{}, memory, settings)
	set, err := second.Resolve(ctx, []entity.Item{{ID: 7, Name: "Dragon claws"}})
	rq.NoError(err)
	rq.True(set.HasID(7))
}
