package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/xid"

	"coffer_scanner/internal/domain"
	"coffer_scanner/pkg/contextx"
	"coffer_scanner/pkg/errcodes"
	"coffer_scanner/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TypeRefresh = "coffer:refresh"

	QueueLocal = "local"

	// Пока задача висит в очереди, повторная постановка отклоняется.
	refreshUniqueTTL = 30 * time.Minute
	refreshTimeout   = 2 * time.Hour
)

type RefreshPayload struct {
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requestedBy,omitempty"`
	TraceID     string    `json:"traceId,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Ticket описывает поставленный в очередь запуск.
type Ticket struct {
	TaskID string
	Queue  string
}

func NewRefreshTask(ctx context.Context, reason string, now time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshPayload{
		Reason:      reason,
		RequestedBy: requestedBy(ctx),
		TraceID:     traceID(ctx),
		RequestedAt: now.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("worker.NewRefreshTask: %w", err)
	}

	return asynq.NewTask(TypeRefresh, payload), nil
}

// HandleRefreshTask — обработчик asynq для TypeRefresh. Неудачный запуск
// не перезапускается очередью: следующий придёт по расписанию.
func (w *Refresher) HandleRefreshTask(ctx context.Context, task *asynq.Task) error {
	var payload RefreshPayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("worker.HandleRefreshTask: %w: %w", err, asynq.SkipRetry)
	}

	// Логи запуска связываются с HTTP-запросом, поставившим задачу.
	if payload.TraceID != "" {
		ctx = contextx.WithTraceID(ctx, contextx.TraceID(payload.TraceID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraceID, payload.TraceID)))
	}

	report, err := w.RunNow(ctx, payload.Reason)
	if err != nil {
		return fmt.Errorf("worker.HandleRefreshTask: run %s: %w: %w", report.RunID, err, asynq.SkipRetry)
	}

	logger(ctx).Info("refresh task done",
		slog.String(logx.FieldRunID, report.RunID),
		slog.String("reason", payload.Reason),
		slog.String(logx.FieldUserID, payload.RequestedBy),
	)

	return nil
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueEnqueuer ставит обновления в очередь asynq.
type QueueEnqueuer struct {
	client TaskEnqueuer
	queue  string
	now    func() time.Time
}

func NewQueueEnqueuer(client TaskEnqueuer, queue string) *QueueEnqueuer {
	return &QueueEnqueuer{
		client: client,
		queue:  queue,
		now:    time.Now,
	}
}

func (e *QueueEnqueuer) EnqueueRefresh(ctx context.Context, reason string) (Ticket, error) {
	task, err := NewRefreshTask(ctx, reason, e.now())
	if err != nil {
		return Ticket{}, err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(e.queue),
		asynq.MaxRetry(0),
		asynq.Timeout(refreshTimeout),
		asynq.Unique(refreshUniqueTTL),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return Ticket{}, domain.WrapError(err, errcodes.RefreshAlreadyQueued, "refresh already queued")
		}

		return Ticket{}, fmt.Errorf("worker.QueueEnqueuer.EnqueueRefresh: %w", err)
	}

	return Ticket{TaskID: info.ID, Queue: info.Queue}, nil
}

// LocalEnqueuer ставит обновление во внутреннюю очередь Refresher,
// когда Redis не настроен.
type LocalEnqueuer struct {
	refresher *Refresher
}

func NewLocalEnqueuer(refresher *Refresher) *LocalEnqueuer {
	return &LocalEnqueuer{refresher: refresher}
}

func (e *LocalEnqueuer) EnqueueRefresh(ctx context.Context, reason string) (Ticket, error) {
	if !e.refresher.Trigger(reason) {
		return Ticket{}, domain.NewError(errcodes.RefreshAlreadyQueued, "refresh already queued")
	}

	ticket := Ticket{TaskID: xid.New().String(), Queue: QueueLocal}

	logger(ctx).Info("refresh queued locally",
		slog.String("task-id", ticket.TaskID),
		slog.String(logx.FieldUserID, requestedBy(ctx)),
	)

	return ticket, nil
}

// requestedBy возвращает инициатора запуска, если транспорт положил его в контекст.
func requestedBy(ctx context.Context) string {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return ""
	}

	return userID.String()
}

func traceID(ctx context.Context) string {
	id, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return ""
	}

	return id.String()
}
