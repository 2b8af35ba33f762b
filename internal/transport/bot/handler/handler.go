package handler

import (
	"context"

	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/worker"
)

type itemsReader interface {
	Items(ctx context.Context) (coffer.ItemsView, error)
}

type refreshStatus interface {
	IsRunning() bool
	LastReport() (coffer.RunReport, bool)
}

type refreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, reason string) (worker.Ticket, error)
}

type Handler struct {
	reader    itemsReader
	refresher refreshStatus
	enqueuer  refreshEnqueuer
}

func New(reader itemsReader, refresher refreshStatus, enqueuer refreshEnqueuer) *Handler {
	return &Handler{
		reader:    reader,
		refresher: refresher,
		enqueuer:  enqueuer,
	}
}
