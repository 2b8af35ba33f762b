package coffer_test

import (
	"context"
	"errors"
	"sync"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
)

var errUpstreamDown = errors.New("upstream down")

type fakeFeeds struct {
	mapping    []entity.Item
	latest     map[int64]entity.PricePoint
	volumes    map[int64]entity.VolumePoint
	mappingErr error
	volumesErr error
}

func (f fakeFeeds) FetchMapping(context.Context) ([]entity.Item, error) {
	return f.mapping, f.mappingErr
}

func (f fakeFeeds) FetchLatestPrices(context.Context) (map[int64]entity.PricePoint, error) {
	return f.latest, nil
}

func (f fakeFeeds) FetchVolumes(context.Context) (map[int64]entity.VolumePoint, error) {
	return f.volumes, f.volumesErr
}

type fakeLinks map[string][]string

func (f fakeLinks) Links(_ context.Context, title string) ([]string, error) {
	links, ok := f[title]
	if !ok {
		return nil, errUpstreamDown
	}
	return links, nil
}

// fakeOfficial отвечает по сценарию: ошибки из errs по очереди, затем price.
type fakeOfficial struct {
	mu     sync.Mutex
	prices map[int64]int64
	errs   map[int64][]error
	calls  map[int64]int
}

func newFakeOfficial(prices map[int64]int64) *fakeOfficial {
	return &fakeOfficial{
		prices: prices,
		errs:   map[int64][]error{},
		calls:  map[int64]int{},
	}
}

func (f *fakeOfficial) FetchOfficialPrice(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[id]++

	if queue := f.errs[id]; len(queue) > 0 {
		f.errs[id] = queue[1:]
		return 0, queue[0]
	}

	price, ok := f.prices[id]
	if !ok {
		return 0, errUpstreamDown
	}
	return price, nil
}

type countingPacer struct {
	waits     int
	successes int
	failures  int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func (p *countingPacer) RecordSuccess() { p.successes++ }
func (p *countingPacer) RecordFailure() { p.failures++ }

type recordingNotifier struct {
	reports []coffer.RunReport
}

func (n *recordingNotifier) NotifyRun(_ context.Context, r coffer.RunReport) error {
	n.reports = append(n.reports, r)
	return nil
}
