package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-mdpublish"
)

func TestApplyOnlyOverridesSetValues(t *testing.T) {
	cfg := mdpublish.DefaultConfig()
	cfg.Publish.DumpDir = "kept"
	Apply(&cfg, Options{})
	if cfg.Publish.DefaultStatus != "public" || cfg.Publish.DumpDir != "kept" || !cfg.Publish.UploadImages {
		t.Fatalf("expected config untouched, got %+v", cfg.Publish)
	}

	yes := true
	Apply(&cfg, Options{Status: "draft", AuthorBlock: &yes, DryRun: &yes, SkipImages: &yes, DumpDir: "out", LogLevel: "debug"})
	if cfg.Publish.DefaultStatus != "draft" || !cfg.Publish.AppendAuthorBlock || !cfg.Publish.DryRun {
		t.Fatalf("expected overrides applied, got %+v", cfg.Publish)
	}
	if cfg.Publish.UploadImages || cfg.Publish.DumpDir != "out" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected overrides applied, got %+v %+v", cfg.Publish, cfg.Logging)
	}
}

func TestBuildModuleDryRun(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "token.config")
	if err := os.WriteFile(config, []byte("MDPUBLISH_LOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MDPUBLISH_LOG_LEVEL", "")

	dry := true
	module, err := BuildModule(Options{ConfigFiles: []string{config}, DryRun: &dry, LogWriter: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("BuildModule returned error: %v", err)
	}
	if module.Publisher == nil || module.Logger == nil {
		t.Fatalf("expected publisher and logger, got %+v", module)
	}
	if got := module.Module.Config().Logging.Level; got != "warn" {
		t.Fatalf("expected level from config file, got %q", got)
	}
}
