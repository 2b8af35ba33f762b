package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/pkg/logx"
)

var ErrAlreadyRunning = errors.New("refresher is already running")

type Runner interface {
	Run(ctx context.Context) (coffer.RunReport, error)
}

// Refresher периодически запускает пайплайн и принимает внеочередные
// запросы на обновление. Запуски строго последовательны.
type Refresher struct {
	runner   Runner
	interval time.Duration
	onStart  bool
	trigger  chan string

	runMu sync.Mutex
	last  *coffer.RunReport

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewRefresher(runner Runner, interval time.Duration) *Refresher {
	return &Refresher{
		runner:   runner,
		interval: interval,
		trigger:  make(chan string, 1),
	}
}

// WithRunOnStart запускает первое обновление сразу, не дожидаясь тикера.
func (w *Refresher) WithRunOnStart(enabled bool) *Refresher {
	w.onStart = enabled
	return w
}

func (w *Refresher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("refresher stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *Refresher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус цикла
func (w *Refresher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Run крутит цикл до отмены контекста. interval <= 0 отключает тикер:
// тогда обновления идут только по Trigger.
func (w *Refresher) Run(ctx context.Context) error {
	logger(ctx).Info("refresher started", slog.Duration("interval", w.interval))

	var tick <-chan time.Time

	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		tick = ticker.C
	}

	if w.onStart {
		w.runLogged(ctx, "startup")
	}

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("refresher stopped")
			return ctx.Err()
		case <-tick:
			w.runLogged(ctx, "schedule")
		case reason := <-w.trigger:
			w.runLogged(ctx, reason)
		}
	}
}

// Trigger ставит внеочередной запуск. Возвращает false, если запуск
// уже ожидает в очереди.
func (w *Refresher) Trigger(reason string) bool {
	select {
	case w.trigger <- reason:
		return true
	default:
		return false
	}
}

// RunNow выполняет запуск синхронно, дожидаясь завершения текущего.
func (w *Refresher) RunNow(ctx context.Context, reason string) (coffer.RunReport, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	logger(ctx).Info("refresh run requested", slog.String("reason", reason))

	report, err := w.runner.Run(ctx)

	w.mu.Lock()
	w.last = &report
	w.mu.Unlock()

	return report, err
}

// LastReport возвращает итог последнего завершённого запуска.
func (w *Refresher) LastReport() (coffer.RunReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.last == nil {
		return coffer.RunReport{}, false
	}

	return *w.last, true
}

func (w *Refresher) runLogged(ctx context.Context, reason string) {
	report, err := w.RunNow(ctx, reason)
	if err != nil {
		logger(ctx).Error("refresh run failed", slog.String(logx.FieldRunID, report.RunID), logx.Error(err))
		return
	}

	logger(ctx).Info("refresh run finished",
		slog.String(logx.FieldRunID, report.RunID),
		slog.Int("published", report.Stats.Published),
		slog.Duration("duration", report.Duration()),
	)
}
