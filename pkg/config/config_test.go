package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		cfg        DatabaseConfig
		wantErr    string
		wantDriver string
	}{
		{name: "memory needs nothing", cfg: DatabaseConfig{Driver: DriverMemory}, wantDriver: DriverMemory},
		{name: "driver defaults to postgres", cfg: DatabaseConfig{URL: "postgres://u:p@localhost/db", Timeout: time.Second}, wantDriver: DriverPostgres},
		{name: "postgresql scheme", cfg: DatabaseConfig{Driver: DriverPostgres, URL: "postgresql://localhost/db", Timeout: time.Second}, wantDriver: DriverPostgres},
		{name: "unknown driver", cfg: DatabaseConfig{Driver: "sqlite"}, wantErr: "unsupported database driver"},
		{name: "missing url", cfg: DatabaseConfig{Driver: DriverPostgres, Timeout: time.Second}, wantErr: "database URL is not configured"},
		{name: "wrong scheme", cfg: DatabaseConfig{URL: "mysql://u:p@localhost/db", Timeout: time.Second}, wantErr: "must start with"},
		{name: "missing timeout", cfg: DatabaseConfig{URL: "postgres://localhost/db"}, wantErr: "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, tt.cfg.Driver)
		})
	}
}

func TestMaskURL(t *testing.T) {
	tests := map[string]string{
		"":                                   "<not configured>",
		"postgres://user:secret@db:5432/app": "postgres://****@db:5432/app",
		"postgres://db:5432/app":             "postgres://db:5432/app",
		"not a url":                          "****",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskURL(in), in)
	}
}

func TestDatabaseConfig_StringMasksCredentials(t *testing.T) {
	cfg := DatabaseConfig{Driver: DriverPostgres, URL: "postgres://user:secret@db:5432/app", Timeout: time.Second}

	s := cfg.String()

	assert.NotContains(t, s, "secret")
	assert.Contains(t, s, "postgres://****@db:5432/app")
}

func TestOptionalSections_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "telemetry disabled", cfg: &TelemetryConfig{}},
		{name: "telemetry enabled without endpoint", cfg: &TelemetryConfig{Enabled: true}, wantErr: true},
		{name: "telemetry enabled", cfg: &TelemetryConfig{Enabled: true, Traces: TracesConfig{OtlpHttp: OtlpHttpConfig{Endpoint: "localhost:4318", Timeout: time.Second}}}},
		{name: "nats disabled", cfg: &NATSConfig{}},
		{name: "nats enabled without stream", cfg: &NATSConfig{Enabled: true, Url: "nats://localhost:4222", Timeout: time.Second}, wantErr: true},
		{name: "nats enabled", cfg: &NATSConfig{Enabled: true, Url: "nats://localhost:4222", Timeout: time.Second, Stream: "PRODUCTS"}},
		{name: "breaker disabled", cfg: &ResilienceConfig{}},
		{name: "breaker without threshold", cfg: &ResilienceConfig{CircuitBreaker: CircuitBreakerConfig{Enabled: true, OpenTimeout: time.Second}}, wantErr: true},
		{name: "breaker with bad rate", cfg: &ResilienceConfig{CircuitBreaker: CircuitBreakerConfig{Enabled: true, ConsecutiveFailures: 3, ErrorRatePercent: 120, OpenTimeout: time.Second}}, wantErr: true},
		{name: "breaker enabled", cfg: &ResilienceConfig{CircuitBreaker: CircuitBreakerConfig{Enabled: true, ConsecutiveFailures: 3, OpenTimeout: time.Second}}},
		{name: "pprof enabled without addr", cfg: &PProfConfig{Enabled: true}, wantErr: true},
		{name: "pprof addr without port", cfg: &PProfConfig{Enabled: true, Addr: "localhost"}, wantErr: true},
		{name: "pprof enabled", cfg: &PProfConfig{Enabled: true, Addr: "localhost:6060"}},
		{name: "shutdown too long", cfg: &ShutdownConfig{Timeout: time.Hour}, wantErr: true},
		{name: "shutdown", cfg: &ShutdownConfig{Timeout: 10 * time.Second}},
		{name: "log level unknown", cfg: &LogConfig{Level: "trace"}, wantErr: true},
		{name: "log level upper case", cfg: &LogConfig{Level: "DEBUG"}},
		{name: "grpc without port", cfg: &GrpcServerConfig{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGrpcServerConfig_DefaultsHealthInterval(t *testing.T) {
	cfg := GrpcServerConfig{Port: "50051"}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultHealthInterval, cfg.HealthInterval)
}
