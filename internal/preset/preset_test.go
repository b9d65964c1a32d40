package preset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asciisymphony/internal/config"
	"asciisymphony/internal/preset"
	"asciisymphony/internal/services"
)

func testSettings() preset.Settings {
	return preset.Settings{
		Mode:        "spectrum",
		Width:       1280,
		Height:      720,
		FPS:         30,
		Quality:     "balanced",
		ColorScheme: "rainbow",
		ASCIIWidth:  100,
		Charset:     "utf8",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	want := testSettings()
	if err := manager.Save("club-night", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := manager.Load("club-night")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingPreset(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	_, err := manager.Load("nope")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsBadSettings(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	cases := []struct {
		label  string
		mutate func(*preset.Settings)
	}{
		{"unknown mode", func(s *preset.Settings) { s.Mode = "hologram" }},
		{"unknown quality", func(s *preset.Settings) { s.Quality = "extreme" }},
		{"unknown charset", func(s *preset.Settings) { s.Charset = "ebcdic" }},
		{"fps out of range", func(s *preset.Settings) { s.FPS = 500 }},
		{"ascii width too small", func(s *preset.Settings) { s.ASCIIWidth = 5 }},
	}
	for _, tc := range cases {
		settings := testSettings()
		tc.mutate(&settings)
		err := manager.Save("bad", settings)
		if !errors.Is(err, services.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.label, err)
		}
	}
}

func TestSaveRejectsBadNames(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	for _, name := range []string{"", "../escape", "has space", ".hidden"} {
		if err := manager.Save(name, testSettings()); !errors.Is(err, services.ErrValidation) {
			t.Errorf("name %q: err = %v, want ErrValidation", name, err)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	manager := preset.NewManagerAt(dir)

	body := "mode = \"waves\"\nwidth = 1280\nheight = 720\nfps = 30\nquality = \"balanced\"\ncolor_scheme = \"rainbow\"\nascii_width = 100\ncharset = \"utf8\"\nmystery_knob = 9\n"
	if err := os.WriteFile(filepath.Join(dir, "weird.preset"), []byte(body), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	_, err := manager.Load("weird")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestListSortedByName(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := manager.Save(name, testSettings()); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	infos, err := manager.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len(infos) = %d, want 3", len(infos))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if infos[i].Name != want {
			t.Fatalf("infos[%d].Name = %q, want %q", i, infos[i].Name, want)
		}
	}
	if infos[0].Modified.IsZero() {
		t.Fatal("expected modification time to be recorded")
	}
}

func TestListEmptyWhenDirMissing(t *testing.T) {
	manager := preset.NewManagerAt(filepath.Join(t.TempDir(), "never-created"))

	infos, err := manager.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("len(infos) = %d, want 0", len(infos))
	}
}

func TestDelete(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	if err := manager.Save("gone", testSettings()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := manager.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := manager.Delete("gone"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := preset.NewManagerAt(t.TempDir())
	target := preset.NewManagerAt(t.TempDir())

	want := testSettings()
	want.Mode = "neural"
	want.Quality = "ultra"
	if err := source.Save("ritual", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	text, err := source.Export("ritual")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(text, "asciisym-preset/1 ritual\n") {
		t.Fatalf("export missing header: %q", text)
	}

	name, err := target.Import(text)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if name != "ritual" {
		t.Fatalf("imported name = %q, want ritual", name)
	}

	got, err := target.Load("ritual")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	cases := []string{
		"",
		"just one line",
		"wrong-header/9 name\naGVsbG8=",
		"asciisym-preset/1 name\nnot base64!!!",
	}
	for _, text := range cases {
		if _, err := manager.Import(text); !errors.Is(err, services.ErrValidation) {
			t.Errorf("Import(%q) err = %v, want ErrValidation", text, err)
		}
	}
}

func TestEnsureDefault(t *testing.T) {
	manager := preset.NewManagerAt(t.TempDir())

	cfg := config.Default()
	if err := manager.EnsureDefault(preset.FromConfig(&cfg)); err != nil {
		t.Fatalf("EnsureDefault: %v", err)
	}

	got, err := manager.Load("default")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if got.Mode != cfg.Render.Mode || got.Quality != cfg.Render.Quality {
		t.Fatalf("default preset = %+v", got)
	}

	// Second call must not overwrite customizations.
	custom := testSettings()
	custom.Mode = "cqt"
	if err := manager.Save("default", custom); err != nil {
		t.Fatalf("Save custom: %v", err)
	}
	if err := manager.EnsureDefault(preset.FromConfig(&cfg)); err != nil {
		t.Fatalf("EnsureDefault again: %v", err)
	}
	got, err = manager.Load("default")
	if err != nil {
		t.Fatalf("Load default again: %v", err)
	}
	if got.Mode != "cqt" {
		t.Fatalf("default preset overwritten: %+v", got)
	}
}
