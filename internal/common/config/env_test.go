package config

import (
	"testing"
	"time"
)

func TestIntFromEnv(t *testing.T) {
	key := "TEST_INT_ENV"

	t.Run("default", func(t *testing.T) {
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(key, " 100 ")
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})

	t.Run("blank uses default", func(t *testing.T) {
		t.Setenv(key, "   ")
		got, err := IntFromEnv(key, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "not_int")
		if _, err := IntFromEnv(key, 42); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBoolFromEnv(t *testing.T) {
	key := "TEST_BOOL_ENV"

	tests := []struct {
		val  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv(key, tt.val)
			got, err := BoolFromEnv(key, !tt.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "maybe")
		if _, err := BoolFromEnv(key, false); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestStringListFromEnv(t *testing.T) {
	key := "TEST_LIST_ENV"

	t.Setenv(key, "foo,bar, baz")
	got := StringListFromEnv(key, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got[0] != "foo" || got[1] != "bar" || got[2] != "baz" {
		t.Errorf("mismatch: %v", got)
	}

	t.Setenv(key, " , ")
	got = StringListFromEnv(key, []string{"default"})
	if len(got) != 1 || got[0] != "default" {
		t.Errorf("expected default, got %v", got)
	}
}

func TestDurationFromEnv(t *testing.T) {
	key := "TEST_DURATION_ENV"
	t.Setenv(key, "10")

	d, err := DurationSecondsFromEnv(key, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 10*time.Second {
		t.Errorf("expected 10s, got %v", d)
	}

	d, err = DurationMillisFromEnv(key, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 10*time.Millisecond {
		t.Errorf("expected 10ms, got %v", d)
	}

	t.Setenv(key, "-1")
	if _, err := DurationSecondsFromEnv(key, 0); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Setenv("TEST_FIRST_A", "")
	t.Setenv("TEST_FIRST_B", "second")
	t.Setenv("TEST_FIRST_C", "third")

	if got := StringFromEnvFirstNonEmpty([]string{"TEST_FIRST_A", "TEST_FIRST_B", "TEST_FIRST_C"}, "d"); got != "second" {
		t.Errorf("expected second, got %q", got)
	}
	if got := StringFromEnvFirstNonEmpty([]string{"TEST_FIRST_MISSING"}, "d"); got != "d" {
		t.Errorf("expected default, got %q", got)
	}

	t.Setenv("TEST_FIRST_INT", "12")
	n, err := IntFromEnvFirstNonEmpty([]string{"TEST_FIRST_MISSING", "TEST_FIRST_INT"}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("expected 12, got %d", n)
	}

	b, err := BoolFromEnvFirstNonEmpty([]string{"TEST_FIRST_MISSING"}, true)
	if err != nil || !b {
		t.Errorf("expected default true, got %v err=%v", b, err)
	}
}

func TestReadServerConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "9090")
	cfg, err := ReadServerConfigFromEnv(8080)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected fallback PORT=9090, got %d", cfg.Port)
	}

	t.Setenv("SERVER_PORT", "70000")
	if _, err := ReadServerConfigFromEnv(8080); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestReadServerTuningConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ReadServerTuningConfigFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ReadHeaderTimeout != 5*time.Second {
			t.Errorf("expected ReadHeaderTimeout=5s, got %v", cfg.ReadHeaderTimeout)
		}
		if cfg.IdleTimeout != 90*time.Second {
			t.Errorf("expected IdleTimeout=90s, got %v", cfg.IdleTimeout)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("expected ShutdownTimeout=10s, got %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SERVER_USE_H2C", "true")
		t.Setenv("SERVER_READ_HEADER_TIMEOUT_SECONDS", "7")
		t.Setenv("SERVER_IDLE_TIMEOUT_SECONDS", "0")
		t.Setenv("SERVER_MAX_HEADER_BYTES", "8192")
		cfg, err := ReadServerTuningConfigFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.UseH2C {
			t.Error("expected UseH2C=true")
		}
		if cfg.ReadHeaderTimeout != 7*time.Second {
			t.Errorf("expected ReadHeaderTimeout=7s, got %v", cfg.ReadHeaderTimeout)
		}
		if cfg.IdleTimeout != 0 {
			t.Errorf("expected IdleTimeout=0, got %v", cfg.IdleTimeout)
		}
		if cfg.MaxHeaderBytes != 8192 {
			t.Errorf("expected MaxHeaderBytes=8192, got %d", cfg.MaxHeaderBytes)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("SERVER_MAX_HEADER_BYTES", "-1")
		if _, err := ReadServerTuningConfigFromEnv(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestReadLogConfigFromEnv(t *testing.T) {
	t.Run("console only", func(t *testing.T) {
		t.Setenv("LOG_DIR", "")
		t.Setenv("LOG_LEVEL", "DEBUG")
		cfg, err := ReadLogConfigFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Dir != "" || cfg.Level != "debug" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		if _, err := ReadLogConfigFromEnv(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("file rotation", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "info")
		t.Setenv("LOG_DIR", t.TempDir())
		t.Setenv("LOG_FILE_MAX_BACKUPS", "0")
		if _, err := ReadLogConfigFromEnv(); err == nil {
			t.Fatal("expected error for zero backups")
		}
	})
}

func TestReadDatabaseConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	cfg, err := ReadDatabaseConfigFromEnv("data/test.db", "chatgame")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Driver != "sqlite" || cfg.Path != "data/test.db" || cfg.Name != "chatgame" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("DB_DRIVER", "mysql")
	if _, err := ReadDatabaseConfigFromEnv("x.db", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestReadTelemetryConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")
	cfg, err := ReadTelemetryConfigFromEnv("chatgame")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Enabled || cfg.SampleRate != 0.25 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	t.Setenv("OTEL_SAMPLE_RATE", "abc")
	if _, err := ReadTelemetryConfigFromEnv("chatgame"); err == nil {
		t.Fatal("expected error")
	}
}
