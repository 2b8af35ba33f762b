package coffer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/value"
	"coffer_scanner/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const ineligibleNamesKey = "coffer:ineligible:names:v1"

// IneligibilityResolver собирает множество предметов, которые нельзя сдать
// в сундук: явный список плюс ссылки со справочных страниц вики.
type IneligibilityResolver struct {
	links LinkSource
	cache Cache
	ttl   time.Duration

	pages         []string
	explicitNames []string
	explicitIDs   []int64
}

func NewIneligibilityResolver(links LinkSource, cache Cache, s Settings) *IneligibilityResolver {
	s = s.withDefaults()

	return &IneligibilityResolver{
		links:         links,
		cache:         cache,
		ttl:           s.IneligibleTTL,
		pages:         s.ReferencePages,
		explicitNames: s.ExplicitNames,
		explicitIDs:   s.ExplicitIDs,
	}
}

// Resolve never fails on a reference page: unreachable pages are skipped.
// Only context cancellation is returned.
func (r *IneligibilityResolver) Resolve(ctx context.Context, mapping []entity.Item) (entity.IneligibilitySet, error) {
	scraped, err := r.scrapedNames(ctx)
	if err != nil {
		return entity.IneligibilitySet{}, err
	}

	known := make(map[string]struct{}, len(mapping))
	for _, item := range mapping {
		known[value.NormalizeName(item.Name)] = struct{}{}
	}

	set := entity.NewIneligibilitySet()

	for _, name := range scraped {
		if _, ok := known[name]; ok {
			set.AddName(name)
		}
	}

	for _, name := range r.explicitNames {
		set.AddName(name)
	}

	for _, id := range r.explicitIDs {
		set.AddID(id)
	}

	for _, item := range mapping {
		if set.HasName(item.Name) {
			set.AddID(item.ID)
		}
	}

	logger(ctx).Info(
		"ineligibility resolved",
		slog.Int("scraped", len(scraped)),
		slog.Int("names", set.Len()),
		slog.Int("ids", len(set.IDs())),
	)

	return set, nil
}

func (r *IneligibilityResolver) scrapedNames(ctx context.Context) ([]string, error) {
	if names, ok := r.cachedNames(ctx); ok {
		return names, nil
	}

	var (
		names  []string
		failed int
	)

	for _, page := range r.pages {
		links, err := r.links.Links(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("coffer.IneligibilityResolver.Resolve: %w", ctx.Err())
			}

			failed++
			logger(ctx).Warn("reference page skipped", slog.String("page", page), logx.Error(err))
			continue
		}

		for _, title := range links {
			if n := value.NormalizeName(title); n != "" {
				names = append(names, n)
			}
		}
	}

	// неполный результат не кешируем, следующий запуск попробует снова
	if failed == 0 {
		r.storeNames(ctx, names)
	}

	return names, nil
}

func (r *IneligibilityResolver) cachedNames(ctx context.Context) ([]string, bool) {
	if r.cache == nil {
		return nil, false
	}

	raw, ok, err := r.cache.Get(ctx, ineligibleNamesKey)
	if err != nil {
		logger(ctx).Warn("cache.Get", slog.String("key", ineligibleNamesKey), logx.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var names []string
	if err = json.Unmarshal(raw, &names); err != nil {
		logger(ctx).Warn("json.Unmarshal cached names", logx.Error(err))
		return nil, false
	}

	return names, true
}

func (r *IneligibilityResolver) storeNames(ctx context.Context, names []string) {
	if r.cache == nil {
		return
	}

	if names == nil {
		names = []string{}
	}

	raw, err := json.Marshal(names)
	if err != nil {
		logger(ctx).Warn("json.Marshal names", logx.Error(err))
		return
	}

	if err = r.cache.Set(ctx, ineligibleNamesKey, raw, r.ttl); err != nil {
		logger(ctx).Warn("cache.Set", slog.String("key", ineligibleNamesKey), logx.Error(err))
	}
}
