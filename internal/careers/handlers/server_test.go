package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gartstein/careers/internal/careers/auth"
	"github.com/gartstein/careers/internal/careers/editor"
	"github.com/gartstein/careers/internal/careers/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func newTestServerAPI(t *testing.T) *API {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ctrl := &mockCompanyController{getCompanyFunc: getBySlug(acmeCompany())}
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	return NewAPI(ctrl, auth.NewStore("secret", auth.DefaultTTL, false, logger), editor.NewRegistry(ctrl, logger), renderer, logger, Options{})
}

func healthStatus(s *Server) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestServer_RegisterHTTPGateway(t *testing.T) {
	s := NewServer(freePort(t), freePort(t), zaptest.NewLogger(t))
	err := s.RegisterHTTPGateway(context.Background(), []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, newTestServerAPI(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.healthConn.Close() })

	assert.NotNil(t, s.httpServer.Handler)
	assert.Equal(t, s.httpEndpoint, s.httpServer.Addr)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthStatus(s))
}

func TestServer_StartStop(t *testing.T) {
	httpPort := freePort(t)
	s := NewServer(freePort(t), httpPort, zaptest.NewLogger(t))
	err := s.RegisterHTTPGateway(context.Background(), []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, newTestServerAPI(t))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", httpPort)
	statusOf := func(path string) int {
		resp, err := http.Get(base + path)
		if err != nil {
			return 0
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	require.Eventually(t, func() bool { return statusOf("/healthz") == http.StatusServiceUnavailable },
		5*time.Second, 50*time.Millisecond)

	s.SetServing(true)
	require.Eventually(t, func() bool { return statusOf("/healthz") == http.StatusOK },
		5*time.Second, 50*time.Millisecond)
	assert.Equal(t, http.StatusOK, statusOf("/api/companies/acme"))

	s.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthStatus(s))
}

type flakyPinger struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.healthy.Load() {
		return nil
	}
	return errors.New("database unreachable")
}

func TestServer_MonitorHealth(t *testing.T) {
	s := NewServer(freePort(t), freePort(t), zaptest.NewLogger(t))
	p := &flakyPinger{}
	p.healthy.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.MonitorHealth(ctx, p, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return healthStatus(s) == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 5*time.Millisecond)

	p.healthy.Store(false)
	require.Eventually(t, func() bool {
		return healthStatus(s) == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 5*time.Millisecond)

	p.healthy.Store(true)
	require.Eventually(t, func() bool {
		return healthStatus(s) == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Greater(t, p.calls.Load(), int32(2))
}
