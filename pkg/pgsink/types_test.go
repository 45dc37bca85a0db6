package pgsink_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    pgsink.LoadConfig
		wantError bool
		errorType error
	}{
		{
			name: "valid config",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
				Table:            "events",
			},
			wantError: false,
		},
		{
			name: "valid config with all fields",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
				Table:            "analytics.events",
				Label:            "events-v2",
				Name:             "bulkload-custom",
				BatchSize:        4096,
				QueueDepth:       4,
				Concurrency:      2,
				Timeout:          30 * time.Second,
			},
			wantError: false,
		},
		{
			name: "missing connection string",
			config: pgsink.LoadConfig{
				Table: "events",
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
		{
			name: "missing table",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
		{
			name: "negative batch size",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
				Table:            "events",
				BatchSize:        -1,
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
		{
			name: "negative queue depth",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
				Table:            "events",
				QueueDepth:       -2,
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
		{
			name: "negative concurrency",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
				Table:            "events",
				Concurrency:      -1,
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
		{
			name: "negative timeout",
			config: pgsink.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/analytics",
				Table:            "events",
				Timeout:          -1 * time.Second,
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
		{
			name: "multiple validation errors",
			config: pgsink.LoadConfig{
				BatchSize: -8192,
				Timeout:   -1 * time.Second,
			},
			wantError: true,
			errorType: pgsink.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatal("Validate() returned nil, want error")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("Validate() error = %v, want errors.Is(%v)", err, tt.errorType)
				}
			} else if err != nil {
				t.Errorf("Validate() returned %v, want nil", err)
			}
		})
	}
}

func TestLoadConfig_Validate_JoinsAllFailures(t *testing.T) {
	config := pgsink.LoadConfig{
		BatchSize:   -1,
		Concurrency: -1,
	}

	err := config.Validate()
	if err == nil {
		t.Fatal("Validate() returned nil, want error")
	}

	msg := err.Error()
	for _, want := range []string{"ConnectionString", "Table", "batch size", "concurrency"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() error %q does not mention %q", msg, want)
		}
	}
}

func TestLoadConfig_ApplyDefaults(t *testing.T) {
	config := pgsink.LoadConfig{
		ConnectionString: "postgresql://localhost:5432/analytics",
		Table:            "events",
	}

	config.ApplyDefaults()

	if config.BatchSize != pgsink.DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", config.BatchSize, pgsink.DefaultBatchSize)
	}
	if config.QueueDepth != pgsink.DefaultQueueDepth {
		t.Errorf("QueueDepth = %d, want %d", config.QueueDepth, pgsink.DefaultQueueDepth)
	}
	if config.Concurrency != pgsink.DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", config.Concurrency, pgsink.DefaultConcurrency)
	}
	if config.Name == "" {
		t.Error("Name is empty, want generated instance name")
	}
}

func TestLoadConfig_ApplyDefaults_PreservesExplicitValues(t *testing.T) {
	config := pgsink.LoadConfig{
		ConnectionString: "postgresql://localhost:5432/analytics",
		Table:            "events",
		Name:             "bulkload-custom",
		BatchSize:        100,
		QueueDepth:       8,
		Concurrency:      4,
	}

	config.ApplyDefaults()

	if config.Name != "bulkload-custom" {
		t.Errorf("Name = %q, want %q", config.Name, "bulkload-custom")
	}
	if config.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", config.BatchSize)
	}
	if config.QueueDepth != 8 {
		t.Errorf("QueueDepth = %d, want 8", config.QueueDepth)
	}
	if config.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", config.Concurrency)
	}
}

func TestGenerateInstanceName(t *testing.T) {
	a := pgsink.GenerateInstanceName()
	b := pgsink.GenerateInstanceName()

	if !strings.HasPrefix(a, "bulkload-") {
		t.Errorf("GenerateInstanceName() = %q, want bulkload- prefix", a)
	}
	if len(a) != len("bulkload-")+8 {
		t.Errorf("GenerateInstanceName() = %q, want 8-character suffix", a)
	}
	if a == b {
		t.Errorf("GenerateInstanceName() returned the same value twice: %q", a)
	}
}
