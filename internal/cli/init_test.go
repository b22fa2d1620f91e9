package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finmanager/internal/config"
	"finmanager/internal/log"
	"finmanager/internal/sheets/memory"
)

func TestLoadSeed_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	seed := `{"accounts": [{"id": "a", "name": "A", "balance": 1, "currency": "EUR"}], "categories": [], "transactions": [], "budgets": []}`
	if err := os.WriteFile(filepath.Join(dir, memory.SeedFile), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	got, err := LoadSeed(context.Background(), &config.Config{DataBackend: "memory", DataDir: dir}, log.Discard())
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(got.Accounts) != 1 || got.Accounts[0].ID != "a" {
		t.Fatalf("unexpected seed: %+v", got)
	}
}

func TestOpenLoader_KeepsLoaderOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataBackend: "memory", DataDir: dir}

	res, err := OpenLoader(context.Background(), cfg, log.Discard())
	if err != nil {
		t.Fatalf("OpenLoader: %v", err)
	}
	defer res.Close()

	// no seed file yet: the demo seed is served
	first, err := ReadSeed(context.Background(), res.Loader, cfg.DataBackend, log.Discard())
	if err != nil {
		t.Fatalf("ReadSeed: %v", err)
	}
	if len(first.Accounts) == 0 {
		t.Fatal("expected the demo seed")
	}

	seed := `{"accounts": [{"id": "a", "name": "A", "balance": 1, "currency": "EUR"}], "categories": [], "transactions": [], "budgets": []}`
	if err := os.WriteFile(filepath.Join(dir, memory.SeedFile), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	second, err := ReadSeed(context.Background(), res.Loader, cfg.DataBackend, log.Discard())
	if err != nil {
		t.Fatalf("ReadSeed: %v", err)
	}
	if len(second.Accounts) != 1 || second.Accounts[0].ID != "a" {
		t.Fatalf("second read should see the new file, got %+v", second.Accounts)
	}
}

func TestLoadSeed_UnknownBackend(t *testing.T) {
	if _, err := LoadSeed(context.Background(), &config.Config{DataBackend: "ftp"}, log.Discard()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug")
	if logger.Component() != log.ComponentCLI {
		t.Fatalf("expected cli component, got %q", logger.Component())
	}
}
