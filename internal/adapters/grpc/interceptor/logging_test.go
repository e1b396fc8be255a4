package interceptor

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLogging_RecordsCode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := func(ctx context.Context, _ any) (any, error) {
		return nil, status.Error(codes.FailedPrecondition, "already clocked in")
	}
	_, err := Logging(logger)(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: selfMethod}, handler)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "code=FailedPrecondition") {
		t.Errorf("unexpected log output %q", out)
	}
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := func(ctx context.Context, _ any) (any, error) {
		panic("boom")
	}

	resp, err := Recovery(logger)(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: selfMethod}, handler)
	if resp != nil {
		t.Errorf("expected nil response, got %v", resp)
	}
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	handler := func(ctx context.Context, _ any) (any, error) {
		return "ok", nil
	}
	resp, err := Recovery(nil)(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: selfMethod}, handler)
	if err != nil || resp != "ok" {
		t.Fatalf("unexpected result %v, %v", resp, err)
	}
}
