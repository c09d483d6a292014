package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ Store = (*sqliteStore)(nil)

type sqliteStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewSQLite(db *sqlx.DB, log *zap.Logger) *sqliteStore {
	return &sqliteStore{
		db:  db,
		log: log.Named("sqlite"),
	}
}

var sqliteQB = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func (s *sqliteStore) Get(ctx context.Context, bucket string) ([]byte, bool, error) {
	query, args, err := sqliteQB.Select("payload").
		From(bucketsTableName).
		Where(sq.Eq{"name": bucket}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var payload string
	if err := s.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		s.log.Error("Get", zap.String("q", query), zap.Any("args", args))
		return nil, false, err
	}
	return []byte(payload), true, nil
}

func (s *sqliteStore) Put(ctx context.Context, bucket string, payload []byte) error {
	query, args, err := sqliteQB.Insert(bucketsTableName).
		Columns("name", "payload", "updated_at").
		Values(bucket, string(payload), sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("Put", zap.String("q", query), zap.String("bucket", bucket))
		return err
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
