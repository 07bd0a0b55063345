package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestConnectRedis_CancelledContext(t *testing.T) {
	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := ConnectRedis(ctx, Options{Addr: "127.0.0.1:1"}, 3, &logger)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if client != nil {
		t.Error("Expected nil client")
	}
}
