package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name string
		ping Pinger
		want healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name: "database reachable",
			ping: func(ctx context.Context) error { return nil },
			want: healthpb.HealthCheckResponse_SERVING,
		},
		{
			name: "database down",
			ping: func(ctx context.Context) error { return errors.New("connection refused") },
			want: healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.ping, zap.NewNop())

			resp, err := handler.Check(context.Background(), &healthpb.HealthCheckRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.GetStatus())
		})
	}
}
