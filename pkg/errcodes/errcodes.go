package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	NoDataYet            failure.ErrorCode = "NoDataYet"            // ни одного снапшота ещё не загружено
	SnapshotNotFound     failure.ErrorCode = "SnapshotNotFound"     // объект по pathname/url отсутствует
	SnapshotStoreFailed  failure.ErrorCode = "SnapshotStoreFailed"  // хранилище недоступно
	UpstreamUnavailable  failure.ErrorCode = "UpstreamUnavailable"  // внешний API не ответил после всех ретраев
	RefreshAlreadyQueued failure.ErrorCode = "RefreshAlreadyQueued" // задача обновления уже в очереди
	InvalidRefreshReason failure.ErrorCode = "InvalidRefreshReason"
)
