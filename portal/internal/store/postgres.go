package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ Store = (*postgresStore)(nil)

// ErrSchemaMissing is returned when the buckets table does not exist,
// i.e. migrations were not applied to the target database.
var ErrSchemaMissing = errors.New("buckets table is missing, run migrations")

type postgresStore struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgres(db *pgxpool.Pool, log *zap.Logger) *postgresStore {
	return &postgresStore{
		db:  db,
		log: log.Named("postgres"),
	}
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (s *postgresStore) Get(ctx context.Context, bucket string) ([]byte, bool, error) {
	query, args, err := qb.Select("payload").
		From(bucketsTableName).
		Where(sq.Eq{"name": bucket}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		s.log.Error("Get", zap.String("q", query), zap.Any("args", args))
		return nil, false, classify(err)
	}
	return payload, true, nil
}

func (s *postgresStore) Put(ctx context.Context, bucket string, payload []byte) error {
	query, args, err := qb.Insert(bucketsTableName).
		Columns("name", "payload", "updated_at").
		Values(bucket, payload, sq.Expr("now()")).
		Suffix("on conflict (name) do update set payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		s.log.Error("Put", zap.String("q", query), zap.String("bucket", bucket))
		return classify(err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	s.db.Close()
	return nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return errors.Wrap(ErrSchemaMissing, pgErr.Message)
	}
	return err
}
