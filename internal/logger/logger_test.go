package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{env: "prod", want: zapcore.InfoLevel},
		{env: "local", want: zapcore.DebugLevel},
		{env: "docker", level: "warn", want: zapcore.WarnLevel},
		{env: "staging", wantErr: true},
		{env: "prod", level: "loud", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.env+"/"+tc.level, func(t *testing.T) {
			l, err := NewLogger(tc.env, tc.level)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tc.want) {
				t.Errorf("expected level %s enabled", tc.want)
			}
			if tc.want > zapcore.DebugLevel && l.Core().Enabled(tc.want-1) {
				t.Errorf("expected level %s disabled", tc.want-1)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger, got nil")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Errorf("expected req-42, got %q", got)
	}
}
