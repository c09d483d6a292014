package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/department-portal/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	errService := errors.New("service error")
	failingService := func() error {
		return errService
	}

	type fields struct {
		recordLength     int
		timeout          time.Duration
		percentile       float64
		recoveryRequests int
	}
	tests := []struct {
		name   string
		fields fields
	}{
		{
			name: "open, half-open, closed",
			fields: fields{
				recordLength:     10,
				timeout:          50 * time.Millisecond,
				percentile:       0.30,
				recoveryRequests: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := circuit_breaker.New(tt.fields.recordLength, tt.fields.timeout, tt.fields.percentile, tt.fields.recoveryRequests)
			for i := 0; i < 20; i++ {
				require.NoError(t, cb.Call(successfulService))
			}
			require.Equal(t, circuit_breaker.Closed, cb.State())

			// 3 of the last 10 calls failed
			for i := 0; i < 3; i++ {
				require.ErrorIs(t, cb.Call(failingService), errService)
			}
			require.Equal(t, circuit_breaker.Open, cb.State())
			require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

			time.Sleep(2 * tt.fields.timeout)

			// a failing probe opens it again
			require.ErrorIs(t, cb.Call(failingService), errService)
			require.Equal(t, circuit_breaker.Open, cb.State())

			time.Sleep(2 * tt.fields.timeout)

			for i := 0; i < tt.fields.recoveryRequests; i++ {
				require.NoError(t, cb.Call(successfulService))
			}
			require.Equal(t, circuit_breaker.Closed, cb.State())
		})
	}
}

func Test_circuitBreaker_Reset(t *testing.T) {
	cb := circuit_breaker.New(1, time.Hour, 1, 1)
	require.Error(t, cb.Call(func() error { return errors.New("boom") }))
	require.Equal(t, circuit_breaker.Open, cb.State())

	cb.Reset()
	require.Equal(t, circuit_breaker.Closed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}
