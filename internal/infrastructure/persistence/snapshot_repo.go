package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"coffer_scanner/internal/domain"
	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/errcodes"
)

// SnapshotRepository хранит снапшоты и логи запусков в Postgres.
type SnapshotRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		now: time.Now,
	}
}

// withTx выполняет функцию в транзакции.
func (r *SnapshotRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.SnapshotStoreFailed,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to commit")
	}

	return nil
}

// Put сохраняет объект; повторная запись того же pathname заменяет содержимое.
func (r *SnapshotRepository) Put(ctx context.Context, pathname string, content []byte) (string, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO snapshot_objects (pathname, content, size, uploaded_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (pathname) DO UPDATE
			SET content = EXCLUDED.content, size = EXCLUDED.size, uploaded_at = EXCLUDED.uploaded_at`

		if _, err := tx.ExecContext(ctx, query, pathname, content, len(content), r.now().UTC()); err != nil {
			return domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to put snapshot")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return objectURL(pathname), nil
}

// List возвращает метаданные, свежие первыми.
func (r *SnapshotRepository) List(ctx context.Context) ([]entity.SnapshotInfo, error) {
	query := `
		SELECT pathname, size, uploaded_at
		FROM snapshot_objects
		ORDER BY uploaded_at DESC`

	var schemas []snapshotObjectSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to list snapshots")
	}

	infos := make([]entity.SnapshotInfo, 0, len(schemas))
	for _, s := range schemas {
		infos = append(infos, s.toDomain())
	}

	return infos, nil
}

func (r *SnapshotRepository) Get(ctx context.Context, url string) ([]byte, error) {
	query := `SELECT content FROM snapshot_objects WHERE pathname = $1`

	var content []byte
	if err := r.db.GetContext(ctx, &content, query, pathnameFromURL(url)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.SnapshotNotFound, "snapshot not found")
		}
		return nil, domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to get snapshot")
	}

	return content, nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, pathname string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM snapshot_objects WHERE pathname = $1`, pathname)
		if err != nil {
			return domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to delete snapshot")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.SnapshotStoreFailed, "failed to check rows affected")
		}
		if rows == 0 {
			return domain.NewError(errcodes.SnapshotNotFound, "snapshot not found")
		}

		return nil
	})
}
