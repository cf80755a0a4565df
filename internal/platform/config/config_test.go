package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Database.MaxConns = %d, want 25", cfg.Database.MaxConns)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database.URL = %q, want empty (memory mode)", cfg.Database.URL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STAPLERO_SERVER_PORT", "9999")
	t.Setenv("STAPLERO_DATABASE_URL", "postgres://u:p@db:5432/staplero")
	t.Setenv("STAPLERO_COURSE_PATH", "/srv/courses")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/staplero" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.CoursePath != "/srv/courses" {
		t.Errorf("CoursePath = %q, want /srv/courses", cfg.CoursePath)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("STAPLERO_SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = -1 }, true},
		{"min conns above max", func(c *Config) { c.Database.MinConns = 50 }, true},
		{"plaintext admin token", func(c *Config) { c.Auth.AdminTokenHash = "hunter2" }, true},
		{"bcrypt admin token", func(c *Config) {
			c.Auth.AdminTokenHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
