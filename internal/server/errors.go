package server

import (
	"errors"

	"git.appkode.ru/pub/go/failure"

	"coffer_scanner/internal/domain"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/pkg/errcodes"
)

// toFailure переводит доменные ошибки в ошибки failure, по которым
// reply.Error выбирает HTTP-статус.
func toFailure(err error) error {
	if errors.Is(err, coffer.ErrNoData) {
		return failure.NewNotFoundError(
			err.Error(),
			failure.WithCode(errcodes.NoDataYet),
			failure.WithDescription("no data yet"),
		)
	}

	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.SnapshotNotFound:
		return failure.NewNotFoundError(
			err.Error(),
			failure.WithCode(code),
			failure.WithDescription("snapshot not found"),
		)
	case errcodes.RefreshAlreadyQueued:
		return failure.NewConflictError(
			err.Error(),
			failure.WithCode(code),
			failure.WithDescription("refresh already queued"),
		)
	default:
		return err
	}
}
