package config

import "testing"

func TestDefault(t *testing.T) {
	c := Default()
	if c.Source.DatasetID != HeartDiseaseID {
		t.Errorf("dataset id: got %d, want %d", c.Source.DatasetID, HeartDiseaseID)
	}
	if c.Storage.Table != DefaultTable {
		t.Errorf("table: got %q, want %q", c.Storage.Table, DefaultTable)
	}
	if c.Storage.URI != "" {
		t.Errorf("uri should default to empty, got %q", c.Storage.URI)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HEARTETL_DB_URI", "postgresql://etl:pw@db:5432/heart")
	t.Setenv("HEARTETL_TABLE", "heart_staging")
	t.Setenv("HEARTETL_DATASET_ID", "96")
	t.Setenv("HEARTETL_BASE_URL", "http://mirror.local")
	t.Setenv("HEARTETL_METRICS_BACKEND", "pushgateway")
	t.Setenv("PUSHGATEWAY_URL", "http://push:9091")

	c := Default()
	c.ApplyEnv()

	if c.Storage.URI != "postgresql://etl:pw@db:5432/heart" {
		t.Errorf("uri: got %q", c.Storage.URI)
	}
	if c.Storage.Table != "heart_staging" {
		t.Errorf("table: got %q", c.Storage.Table)
	}
	if c.Source.DatasetID != 96 {
		t.Errorf("dataset id: got %d", c.Source.DatasetID)
	}
	if c.Source.BaseURL != "http://mirror.local" {
		t.Errorf("base url: got %q", c.Source.BaseURL)
	}
	if c.Metrics.Backend != "pushgateway" || c.Metrics.PushgatewayURL != "http://push:9091" {
		t.Errorf("metrics: got %+v", c.Metrics)
	}
}

func TestApplyEnvIgnoresUnsetAndMalformed(t *testing.T) {
	t.Setenv("HEARTETL_DATASET_ID", "not-a-number")

	c := Default()
	c.Storage.URI = "sqlite://heart.db"
	c.ApplyEnv()

	if c.Source.DatasetID != HeartDiseaseID {
		t.Errorf("malformed id overrode default: got %d", c.Source.DatasetID)
	}
	if c.Storage.URI != "sqlite://heart.db" {
		t.Errorf("unset env clobbered uri: got %q", c.Storage.URI)
	}
}
