package store

import (
	"context"
)

const (
	BucketUsers          = "mbstu_users"
	BucketBooks          = "mbstu_books"
	BucketBorrows        = "mbstu_borrows"
	BucketNotices        = "mbstu_notices"
	BucketVerifiedEmails = "mbstu_verified_emails"
)

const bucketsTableName = `buckets`

// Store persists one JSON payload per named bucket. Put replaces the
// whole bucket in a single statement.
type Store interface {
	Get(ctx context.Context, bucket string) (payload []byte, found bool, err error)
	Put(ctx context.Context, bucket string, payload []byte) error
	Close() error
}
