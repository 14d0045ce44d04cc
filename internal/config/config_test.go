package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/WangQiHao-Charlie/screpd/internal/config"
	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScrepPath != "screp" || cfg.MaxConcurrency != 4 || cfg.TerminationWait != 5*time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SCREP_PATH", "/opt/bin/screp")
	t.Setenv("SCREP_TIMEOUT", "30s")
	t.Setenv("SCREPD_ALLOWED_BINARIES", "/opt/bin/screp,/usr/bin/screp")
	t.Setenv("SCREPD_LOG_FORMAT", "json")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScrepPath != "/opt/bin/screp" || cfg.Timeout != 30*time.Second || cfg.LogFormat != "json" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"/opt/bin/screp", "/usr/bin/screp"}, cfg.AllowedBinaries); diff != "" {
		t.Fatalf("allowed binaries (-want +got):\n%s", diff)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SCREP_TIMEOUT", "soon")
	if _, err := config.Load(); err == nil {
		t.Fatalf("Load succeeded with invalid SCREP_TIMEOUT")
	}
}

func TestLoadOptionsFile_YAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "opts.yaml")
	body := "includeMapData: true\nincludeMapTiles: true\nincludeMapDataHash: true\nmapDataHashAlgorithm: md5\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := config.LoadOptionsFile(p)
	if err != nil {
		t.Fatalf("LoadOptionsFile: %v", err)
	}
	want := screp.Options{
		IncludeMapData:       screp.Bool(true),
		IncludeMapTiles:      screp.Bool(true),
		IncludeMapDataHash:   screp.Bool(true),
		MapDataHashAlgorithm: screp.HashMD5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}

func TestParseOptions_JSONDetected(t *testing.T) {
	got, err := config.ParseOptions([]byte(`{"includeCommands": true}`), "")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if got.IncludeCommands == nil || !*got.IncludeCommands {
		t.Fatalf("includeCommands = %v, want true", got.IncludeCommands)
	}
}

func TestParseOptions_Invalid(t *testing.T) {
	_, err := config.ParseOptions([]byte("includeCommands: maybe\n"), ".yml")
	if !errors.Is(err, screp.ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
	_, err = config.ParseOptions([]byte(`{"somethingInvalid": true}`), ".json")
	if !errors.Is(err, screp.ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
	if _, err := config.ParseOptions([]byte("{"), ".json"); err == nil {
		t.Fatalf("malformed json accepted")
	}
}
