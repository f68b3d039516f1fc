// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestWalletCtxKey(t *testing.T) {
	if WalletCtxKey.String() != "wallet" {
		t.Errorf("expected 'wallet', got '%s'", WalletCtxKey.String())
	}
}

func TestWithSession_RoundTrip(t *testing.T) {
	ctx := WithSession(context.Background(), "0xabc", true)

	wallet, ok := GetWalletFromContext(ctx)
	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if wallet != "0xabc" {
		t.Errorf("expected wallet=0xabc, got %s", wallet)
	}
	if !IsAdminFromContext(ctx) {
		t.Error("expected admin flag to be set")
	}
}

func TestGetWalletFromContext_Missing(t *testing.T) {
	wallet, ok := GetWalletFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if wallet != "" {
		t.Errorf("expected empty wallet, got %s", wallet)
	}
	if IsAdminFromContext(context.Background()) {
		t.Error("expected admin=false for empty context")
	}
}

func TestGetWalletFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), WalletCtxKey, 42)

	if _, ok := GetWalletFromContext(ctx); ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}
}

func TestWithTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-1")

	traceID, ok := GetTraceIDFromContext(ctx)
	if !ok || traceID != "trace-1" {
		t.Fatalf("expected trace-1, got %q (ok=%v)", traceID, ok)
	}

	if _, ok := GetTraceIDFromContext(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
}
