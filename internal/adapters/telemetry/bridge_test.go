package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.trai.ch/stratum/internal/adapters/telemetry"
	"go.trai.ch/stratum/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "configure finished in ")
	})).Times(1)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewBridge(mockLogger))
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, root := tracer.Start(context.Background(), "build")
	_, span := tracer.Start(ctx, "configure")
	span.End()
	root.End()
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "compile failed after ") && strings.HasSuffix(msg, ": exit status 2")
	})).Times(1)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewBridge(mockLogger))
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, root := tracer.Start(context.Background(), "build")
	_, span := tracer.Start(ctx, "compile")
	span.RecordError(errors.New("exit status 2"))
	span.End()
	root.End()
}

func TestBridge_IgnoresRootSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).Times(0)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(0)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewBridge(mockLogger))
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "build")
	span.RecordError(errors.New("compile failed"))
	span.End()
}

func TestBridge_NilLogger(_ *testing.T) {
	tracer := telemetry.NewOTelTracer("test", telemetry.NewBridge(nil))
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "assets")
	span.End()
}
