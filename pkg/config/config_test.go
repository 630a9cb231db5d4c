package config

import "testing"

type testConfig struct {
	Name  string `default:"sahai"`
	Limit int    `envconfig:"LIMIT" default:"3"`
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("APP_LIMIT", "7")

	cfg, err := New[testConfig]("APP")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Limit != 7 {
		t.Errorf("limit = %d, want 7", cfg.Limit)
	}
	if cfg.Name != "sahai" {
		t.Errorf("name = %q, want the tag default", cfg.Name)
	}
}
