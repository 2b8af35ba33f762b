package server

import (
	"context"
	"fmt"
	"net/http"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/pkg/httpx/reply"
	"coffer_scanner/pkg/lox"
)

type itemsReader interface {
	Items(ctx context.Context) (coffer.ItemsView, error)
	Snapshots(ctx context.Context) ([]entity.SnapshotInfo, error)
}

type ItemsServer struct {
	reader itemsReader
}

func NewItemsServer(reader itemsReader) ItemsServer {
	return ItemsServer{
		reader: reader,
	}
}

func (s ItemsServer) getV1Items(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	view, err := s.reader.Items(ctx)
	if err != nil {
		return fmt.Errorf("reader.Items: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTItemsResponse(view))

	return nil
}

func (s ItemsServer) getV1Snapshots(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	snapshots, err := s.reader.Snapshots(ctx)
	if err != nil {
		return fmt.Errorf("reader.Snapshots: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(snapshots, newRESTSnapshot))

	return nil
}
