package handler

import (
	"context"
	"testing"

	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumer_handle(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name     string
		value    string
		err      error
		wantMark bool
		wantCall bool
	}{
		{
			name:     "ok",
			value:    `[{"email":"teacher@mbstu.ac.bd","role":"Teacher"}]`,
			wantMark: true,
			wantCall: true,
		},
		{
			name:     "broken payload is skipped",
			value:    `{not json`,
			wantMark: true,
		},
		{
			name:     "rejected batch is skipped",
			value:    `[{"email":"x@mbstu.ac.bd","role":"Dean"}]`,
			err:      errors.Wrap(errs.ErrInvalidRole, `x@mbstu.ac.bd: "Dean"`),
			wantMark: true,
			wantCall: true,
		},
		{
			name:     "empty email is skipped",
			value:    `[{"email":"","role":"Guest"}]`,
			err:      errors.Wrap(errs.ErrInvalidEmail, "verified email is empty"),
			wantMark: true,
			wantCall: true,
		},
		{
			name:     "storage failure stays unmarked",
			value:    `[{"email":"x@mbstu.ac.bd","role":"Guest"}]`,
			err:      errors.New("store.Put mbstu_verified_emails: database is locked"),
			wantCall: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []model.VerifiedEmail
			called := false
			consumer := NewConsumer(func(_ context.Context, items []model.VerifiedEmail) (int, error) {
				called = true
				got = items
				return len(items), tt.err
			}, zap.NewNop())

			mark := consumer.handle(context.Background(), &sarama.ConsumerMessage{
				Topic: "portal.verified-emails",
				Value: []byte(tt.value),
			})
			require.Equal(t, tt.wantMark, mark)
			require.Equal(t, tt.wantCall, called)
			if tt.name == "ok" {
				require.Equal(t, []model.VerifiedEmail{{Email: "teacher@mbstu.ac.bd", Role: model.RoleTeacher}}, got)
			}
		})
	}
}
