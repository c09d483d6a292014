package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/Astemirdum/department-portal/portal/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	SaveUser(ctx context.Context, user model.User) error

	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	SaveBook(ctx context.Context, book model.Book) error
	SaveBooks(ctx context.Context, books []model.Book) error

	ListBorrows(ctx context.Context) ([]model.BorrowRecord, error)
	GetBorrow(ctx context.Context, id string) (model.BorrowRecord, error)
	SaveBorrow(ctx context.Context, record model.BorrowRecord) error

	ListNotices(ctx context.Context) ([]model.Notice, error)

	ListVerified(ctx context.Context) ([]model.VerifiedEmail, error)
	AddVerified(ctx context.Context, items []model.VerifiedEmail) (int, error)
}

type repository struct {
	// mu serializes read-modify-write cycles on a bucket.
	mu    sync.Mutex
	store store.Store
	log   *zap.Logger
}

func NewRepository(s store.Store, log *zap.Logger) (*repository, error) {
	return &repository{
		store: s,
		log:   log.Named("repo"),
	}, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	return readBucket[model.User](ctx, r, store.BucketUsers)
}

func (r *repository) GetUser(ctx context.Context, id string) (model.User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, errs.ErrUserNotFound
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, errs.ErrUserNotFound
}

func (r *repository) SaveUser(ctx context.Context, user model.User) error {
	return upsert(ctx, r, store.BucketUsers, user, func(u model.User) string { return u.ID })
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	return readBucket[model.Book](ctx, r, store.BucketBooks)
}

func (r *repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	books, err := r.ListBooks(ctx)
	if err != nil {
		return model.Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Book{}, errors.Wrapf(errs.ErrNotFound, "book %s", id)
}

func (r *repository) SaveBook(ctx context.Context, book model.Book) error {
	return upsert(ctx, r, store.BucketBooks, book, func(b model.Book) string { return b.ID })
}

func (r *repository) SaveBooks(ctx context.Context, books []model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeBucket(ctx, r, store.BucketBooks, books)
}

func (r *repository) ListBorrows(ctx context.Context) ([]model.BorrowRecord, error) {
	return readBucket[model.BorrowRecord](ctx, r, store.BucketBorrows)
}

func (r *repository) GetBorrow(ctx context.Context, id string) (model.BorrowRecord, error) {
	records, err := r.ListBorrows(ctx)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.BorrowRecord{}, errors.Wrapf(errs.ErrNotFound, "borrow record %s", id)
}

func (r *repository) SaveBorrow(ctx context.Context, record model.BorrowRecord) error {
	return upsert(ctx, r, store.BucketBorrows, record, func(b model.BorrowRecord) string { return b.ID })
}

func (r *repository) ListNotices(ctx context.Context) ([]model.Notice, error) {
	return readBucket[model.Notice](ctx, r, store.BucketNotices)
}

func (r *repository) ListVerified(ctx context.Context) ([]model.VerifiedEmail, error) {
	return readBucket[model.VerifiedEmail](ctx, r, store.BucketVerifiedEmails)
}

// AddVerified appends the entries whose email is not stored yet. Existing
// entries keep their role; within items the first occurrence wins.
func (r *repository) AddVerified(ctx context.Context, items []model.VerifiedEmail) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := readBucketLocked[model.VerifiedEmail](ctx, r, store.BucketVerifiedEmails)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(current)+len(items))
	for _, v := range current {
		seen[v.Email] = struct{}{}
	}
	added := 0
	for _, item := range items {
		if _, ok := seen[item.Email]; ok {
			continue
		}
		seen[item.Email] = struct{}{}
		current = append(current, item)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := writeBucket(ctx, r, store.BucketVerifiedEmails, current); err != nil {
		return 0, err
	}
	return added, nil
}

func upsert[T any](ctx context.Context, r *repository, bucket string, item T, id func(T) string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := readBucketLocked[T](ctx, r, bucket)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return writeBucket(ctx, r, bucket, items)
}

// readBucket decodes a bucket for callers that do not hold r.mu. Absent
// buckets with a seed are materialized on first read; the rest read as empty.
func readBucket[T any](ctx context.Context, r *repository, bucket string) ([]T, error) {
	payload, found, err := r.store.Get(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "store.Get %s", bucket)
	}
	if !found {
		if _, ok := seeds[bucket]; ok {
			r.mu.Lock()
			payload, err = r.seedLocked(ctx, bucket)
			r.mu.Unlock()
			if err != nil {
				return nil, err
			}
		}
	}
	return decodeBucket[T](r, bucket, payload)
}

// readBucketLocked is readBucket for callers holding r.mu.
func readBucketLocked[T any](ctx context.Context, r *repository, bucket string) ([]T, error) {
	payload, found, err := r.store.Get(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "store.Get %s", bucket)
	}
	if !found {
		if _, ok := seeds[bucket]; ok {
			if payload, err = r.seedLocked(ctx, bucket); err != nil {
				return nil, err
			}
		}
	}
	return decodeBucket[T](r, bucket, payload)
}

// seedLocked expects r.mu to be held. A bucket written since the caller's
// unlocked read is returned as is.
func (r *repository) seedLocked(ctx context.Context, bucket string) ([]byte, error) {
	payload, found, err := r.store.Get(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "store.Get %s", bucket)
	}
	if found {
		return payload, nil
	}
	seed := seeds[bucket]
	if err := r.store.Put(ctx, bucket, seed); err != nil {
		return nil, errors.Wrapf(err, "seed %s", bucket)
	}
	r.log.Info("bucket seeded", zap.String("bucket", bucket))
	return seed, nil
}

func decodeBucket[T any](r *repository, bucket string, payload []byte) ([]T, error) {
	if payload == nil {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		r.log.Error("corrupted bucket", zap.String("bucket", bucket), zap.Error(err))
		return nil, errors.Wrapf(errs.ErrDeserialization, "%s: %v", bucket, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeBucket[T any](ctx context.Context, r *repository, bucket string, items []T) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", bucket)
	}
	if err := r.store.Put(ctx, bucket, payload); err != nil {
		return errors.Wrapf(err, "store.Put %s", bucket)
	}
	return nil
}
