package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hollowaylabs/sonar/internal/signals"
)

func TestSaveJSONCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "signals.json")

	bundle := signals.Bundle{CollectedAt: "2026-02-14T09:30:00Z"}
	if err := SaveJSON(path, bundle); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
}

func TestSaveJSONIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	if err := SaveJSON(path, map[string]int{"signals_analyzed": 42}); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	want := "{\n  \"signals_analyzed\": 42\n}"
	if string(raw) != want {
		t.Errorf("expected indented JSON, got %q", raw)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.json")

	bundle := signals.Bundle{
		CollectedAt: "2026-02-14T09:30:00Z",
		Market: signals.MarketRecord{
			Sol: signals.SolSnapshot{PriceUSD: 150.25, Change24h: 1.46},
			EcosystemTokens: []signals.Token{
				{Symbol: "JUP", Name: "Jupiter", Price: 0.52},
			},
		},
	}
	if err := SaveJSON(path, bundle); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	var got signals.Bundle
	if err := LoadJSON(path, &got); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if got.CollectedAt != bundle.CollectedAt {
		t.Errorf("collected_at mismatch: %q", got.CollectedAt)
	}
	if got.Market.Sol.PriceUSD != 150.25 {
		t.Errorf("sol price mismatch: %v", got.Market.Sol.PriceUSD)
	}
	if len(got.Market.EcosystemTokens) != 1 || got.Market.EcosystemTokens[0].Symbol != "JUP" {
		t.Errorf("tokens mismatch: %+v", got.Market.EcosystemTokens)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	var out signals.Bundle
	err := LoadJSON(path, &out)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got %v", err)
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var out signals.Bundle
	err := LoadJSON(path, &out)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("expected decode error, got %v", err)
	}
}
