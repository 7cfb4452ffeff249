package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/haivivi/tonescribe/pkg/storage"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfigWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	return cfg
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"1234", "****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"AKIAabcdefghij", "AKIA******ghij"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := MaskSecret(tt.key); got != tt.want {
				t.Errorf("MaskSecret(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestContext_Extra(t *testing.T) {
	ctx := &Context{Name: "test"}
	if got := ctx.GetExtra("key"); got != "" {
		t.Errorf("GetExtra on nil map = %q, want empty string", got)
	}

	ctx.SetExtra("key", "value")
	if got := ctx.GetExtra("key"); got != "value" {
		t.Errorf("GetExtra(key) = %q, want %q", got, "value")
	}
	if got := ctx.GetExtra("nonexistent"); got != "" {
		t.Errorf("GetExtra(nonexistent) = %q, want empty string", got)
	}
}

func TestContext_Masked(t *testing.T) {
	ctx := &Context{
		Name: "cloud",
		Export: &storage.Target{
			Kind:      storage.KindS3,
			Bucket:    "tunes",
			AccessKey: "AKIAEXAMPLE",
			SecretKey: "0123456789abcdef",
		},
	}

	masked := ctx.Masked()
	if masked.Export.SecretKey != "0123********cdef" {
		t.Errorf("masked secret = %q", masked.Export.SecretKey)
	}
	if ctx.Export.SecretKey != "0123456789abcdef" {
		t.Error("Masked modified the original context")
	}
	if (&Context{}).Masked().Export != nil {
		t.Error("Masked invented an export target")
	}
}

func TestContext_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ctx     Context
		wantErr string
	}{
		{"empty", Context{}, ""},
		{"full", Context{Grammar: "rtttl", Linker: "midi", Backend: "portaudio", DeviceRate: 48000}, ""},
		{"precise", Context{Linker: "precise"}, ""},
		{"grammar", Context{Grammar: "abc"}, "invalid grammar"},
		{"linker", Context{Linker: "arduino"}, "invalid linker"},
		{"backend", Context{Backend: "alsa"}, "invalid backend"},
		{"rate", Context{DeviceRate: -1}, "device_rate"},
		{"export", Context{Export: &storage.Target{Kind: "ftp"}}, "invalid export.kind"},
		{"export default kind", Context{Export: &storage.Target{Dir: "/tmp/out"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ctx.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigWithPath_NewConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	if cfg.Contexts == nil {
		t.Error("Contexts should be initialized")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file should be created")
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if cfg.Dir() != filepath.Dir(configPath) {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), filepath.Dir(configPath))
	}
}

func TestLoadConfigWithPath_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("contexts: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigWithPath(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_AddContext(t *testing.T) {
	cfg := newTestConfig(t)

	if err := cfg.AddContext("studio", &Context{Grammar: "rtttl", DeviceRate: 48000}); err != nil {
		t.Fatalf("AddContext error: %v", err)
	}
	ctx := cfg.Contexts["studio"]
	if ctx == nil {
		t.Fatal("Context not added")
	}
	if ctx.Name != "studio" {
		t.Errorf("Context.Name = %q, want %q", ctx.Name, "studio")
	}
	if ctx.DeviceRate != 48000 {
		t.Errorf("Context.DeviceRate = %d, want 48000", ctx.DeviceRate)
	}

	if err := cfg.AddContext("bad", &Context{Backend: "jack"}); err == nil {
		t.Error("AddContext should reject an unknown backend")
	}
	if err := cfg.AddContext("", &Context{}); err == nil {
		t.Error("AddContext should reject an empty name")
	}
}

func TestConfig_DeleteContext(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.AddContext("ctx1", &Context{})
	cfg.AddContext("ctx2", &Context{})
	cfg.UseContext("ctx1")

	if err := cfg.DeleteContext("ctx2"); err != nil {
		t.Fatalf("DeleteContext error: %v", err)
	}
	if _, ok := cfg.Contexts["ctx2"]; ok {
		t.Error("Context should be deleted")
	}

	if err := cfg.DeleteContext("ctx1"); err != nil {
		t.Fatalf("DeleteContext error: %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext should be cleared, got %q", cfg.CurrentContext)
	}

	if err := cfg.DeleteContext("nonexistent"); err == nil {
		t.Error("DeleteContext should fail for non-existent context")
	}
}

func TestConfig_UseAndResolveContext(t *testing.T) {
	cfg := newTestConfig(t)

	if _, err := cfg.GetCurrentContext(); err == nil {
		t.Error("GetCurrentContext should fail when no current context")
	}
	if err := cfg.UseContext("nonexistent"); err == nil {
		t.Error("UseContext should fail for non-existent context")
	}

	cfg.AddContext("ctx1", &Context{Linker: "beep"})
	cfg.AddContext("ctx2", &Context{Linker: "midi"})
	if err := cfg.UseContext("ctx1"); err != nil {
		t.Fatalf("UseContext error: %v", err)
	}

	ctx, err := cfg.ResolveContext("ctx2")
	if err != nil {
		t.Fatalf("ResolveContext(ctx2) error: %v", err)
	}
	if ctx.Linker != "midi" {
		t.Errorf("Linker = %q, want midi", ctx.Linker)
	}

	ctx, err = cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext('') error: %v", err)
	}
	if ctx.Linker != "beep" {
		t.Errorf("Linker = %q, want beep", ctx.Linker)
	}

	if _, err := cfg.GetContext("nonexistent"); err == nil {
		t.Error("GetContext should fail for non-existent context")
	}
}

func TestConfig_ListContexts(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.AddContext("production", &Context{})
	cfg.AddContext("staging", &Context{})
	cfg.AddContext("development", &Context{})

	got := cfg.ListContexts()
	want := []string{"development", "production", "staging"}
	if !slices.Equal(got, want) {
		t.Errorf("ListContexts() = %v, want %v", got, want)
	}
}

func TestConfig_Settings(t *testing.T) {
	cfg := newTestConfig(t)

	eff, err := cfg.Settings("")
	if err != nil {
		t.Fatalf("Settings without context: %v", err)
	}
	if eff.Grammar != DefaultGrammar || eff.Linker != DefaultLinker || eff.Backend != DefaultBackend {
		t.Errorf("defaults = %+v", eff)
	}
	if eff.LibraryDir != filepath.Join(cfg.Dir(), "library") {
		t.Errorf("LibraryDir = %q", eff.LibraryDir)
	}

	cfg.AddContext("ring", &Context{Grammar: "rtttl", LibraryDir: "/srv/tunes"})
	cfg.UseContext("ring")

	eff, err = cfg.Settings("")
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if eff.Grammar != "rtttl" || eff.LibraryDir != "/srv/tunes" || eff.Linker != DefaultLinker {
		t.Errorf("Settings() = %+v", eff)
	}
	if cfg.Contexts["ring"].Linker != "" {
		t.Error("Settings modified the stored context")
	}

	if _, err := cfg.Settings("missing"); err == nil {
		t.Error("Settings should fail for an unknown context")
	}
}

func TestConfig_Persistence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg1, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg1.AddContext("cloud", &Context{
		Backend: "portaudio",
		Export: &storage.Target{
			Kind:   storage.KindS3,
			Bucket: "tunes",
			Prefix: "renders",
		},
		Extra: map[string]string{"author": "ada"},
	})
	cfg1.UseContext("cloud")

	cfg2, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	if cfg2.CurrentContext != "cloud" {
		t.Errorf("CurrentContext = %q, want %q", cfg2.CurrentContext, "cloud")
	}
	ctx, err := cfg2.GetContext("cloud")
	if err != nil {
		t.Fatalf("GetContext error: %v", err)
	}
	if ctx.Backend != "portaudio" {
		t.Errorf("Backend = %q", ctx.Backend)
	}
	if ctx.Export == nil || ctx.Export.Bucket != "tunes" || ctx.Export.Prefix != "renders" {
		t.Errorf("Export = %+v", ctx.Export)
	}
	if ctx.GetExtra("author") != "ada" {
		t.Errorf("Extra = %v", ctx.Extra)
	}
}
