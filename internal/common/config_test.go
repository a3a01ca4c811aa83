package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 4545 {
		t.Errorf("default port = %d, want 4545", config.Server.Port)
	}
	if config.Clients.XE.FallbackRate != 129.65 {
		t.Errorf("fallback rate = %v, want 129.65", config.Clients.XE.FallbackRate)
	}
	if config.Trading.SymbolAliases["I&M"] != "IMH" {
		t.Errorf("aliases = %v, want I&M mapped to IMH", config.Trading.SymbolAliases)
	}
	if config.Trading.FeeOnNoop {
		t.Error("fee_on_noop should default to false")
	}
	if config.Ledger.Network != "testnet" {
		t.Errorf("network = %q, want testnet", config.Ledger.Network)
	}
}

func TestLoadConfig_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neo.toml")
	content := `
environment = "production"

[server]
port = 8080

[clients.backend]
base_url = "https://api.example.com"
service_email = "svc@example.com"

[ledger]
operator_account_id = "0.0.5005"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", config.Server.Port)
	}
	if config.Clients.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("base url = %q", config.Clients.Backend.BaseURL)
	}
	if config.Clients.Backend.ServiceEmail != "svc@example.com" {
		t.Errorf("service email = %q", config.Clients.Backend.ServiceEmail)
	}
	// Untouched sections keep their defaults.
	if config.Clients.XE.FallbackRate != 129.65 {
		t.Errorf("fallback rate = %v, want default", config.Clients.XE.FallbackRate)
	}
	if !config.IsProduction() {
		t.Error("environment = production should report IsProduction")
	}
}

func TestLoadConfig_SkipsMissingFiles(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Server.Port != 4545 {
		t.Errorf("port = %d, want defaults when file is absent", config.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NEO_PORT", "9090")
	t.Setenv("NEO_OPERATOR_ACCOUNT_ID", "0.0.6006")
	t.Setenv("NEO_NETWORK", "Mainnet")
	t.Setenv("NEO_FEE_ON_NOOP", "true")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", config.Server.Port)
	}
	if config.Ledger.OperatorAccountID != "0.0.6006" {
		t.Errorf("operator = %q", config.Ledger.OperatorAccountID)
	}
	if config.Ledger.Network != "mainnet" {
		t.Errorf("network = %q, want lowercased mainnet", config.Ledger.Network)
	}
	if !config.Trading.FeeOnNoop {
		t.Error("fee_on_noop env override not applied")
	}
}

func TestValidate(t *testing.T) {
	config := NewDefaultConfig()

	if err := config.Validate(); err == nil {
		t.Error("expected error without operator credentials")
	}

	config.Ledger.OperatorAccountID = "0.0.5005"
	config.Ledger.OperatorPrivateKey = "302e0201..."
	if err := config.Validate(); err == nil {
		t.Error("expected error without settlement token id")
	}

	config.Ledger.USDCTokenID = "0.0.8008"
	if err := config.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if config.Ledger.TreasuryAccountID != "0.0.5005" {
		t.Errorf("treasury = %q, want operator account as default", config.Ledger.TreasuryAccountID)
	}
}

func TestBackendConfig_GetTimeout(t *testing.T) {
	c := BackendConfig{Timeout: "5s"}
	if c.GetTimeout().Seconds() != 5 {
		t.Errorf("timeout = %v, want 5s", c.GetTimeout())
	}

	c.Timeout = "nonsense"
	if c.GetTimeout().Seconds() != 30 {
		t.Errorf("timeout = %v, want 30s default for bad value", c.GetTimeout())
	}
}
