package server

import (
	"context"
	"fmt"
	"net/http"

	"coffer_scanner/internal/worker"
	"coffer_scanner/pkg/httpx/reply"
	"coffer_scanner/pkg/httpx/req"
	"coffer_scanner/pkg/rest"
)

type refreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, reason string) (worker.Ticket, error)
}

type RefreshServer struct {
	enqueuer refreshEnqueuer
}

func NewRefreshServer(enqueuer refreshEnqueuer) RefreshServer {
	return RefreshServer{
		enqueuer: enqueuer,
	}
}

func (s RefreshServer) postV1Refresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RefreshRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	ticket, err := s.enqueuer.EnqueueRefresh(ctx, request.Reason)
	if err != nil {
		return fmt.Errorf("enqueuer.EnqueueRefresh: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.RefreshResponse{
		TaskID: ticket.TaskID,
		Queue:  ticket.Queue,
	})

	return nil
}
