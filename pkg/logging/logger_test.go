package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pictora/pictora/pkg/config"
)

func TestInitLogger(t *testing.T) {
	cfg := &config.LoggingConfig{
		Level:  "INFO",
		Format: "json",
	}

	if err := InitLogger(cfg); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger should be set after InitLogger")
	}

	// Unknown level falls back to info instead of failing
	cfg.Level = "bogus"
	if err := InitLogger(cfg); err != nil {
		t.Fatalf("Unknown level should not fail: %v", err)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	logger := zap.New(core)

	logger.Info("test message", zap.String("key", "value"))

	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if logObj["msg"] != "test message" {
		t.Errorf("Expected message 'test message', got: %v", logObj["msg"])
	}
	if logObj["key"] != "value" {
		t.Errorf("Expected field 'key'='value', got: %v", logObj["key"])
	}
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("test-component")
	if logger == nil {
		t.Fatal("WithComponent should never return nil")
	}
}
