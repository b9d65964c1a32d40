// Package preset stores named render settings as flat TOML files and moves
// them between machines through a base64 text form.
package preset

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"asciisymphony/internal/config"
	"asciisymphony/internal/quality"
	"asciisymphony/internal/services"
	"asciisymphony/internal/visualize"
)

// exportHeader tags portable preset text so Import can reject arbitrary blobs.
const exportHeader = "asciisym-preset/1"

const fileExtension = ".preset"

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Settings is the flat set of render knobs a preset captures.
type Settings struct {
	Mode        string `toml:"mode"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	FPS         int    `toml:"fps"`
	Quality     string `toml:"quality"`
	ColorScheme string `toml:"color_scheme"`
	ASCIIWidth  int    `toml:"ascii_width"`
	Charset     string `toml:"charset"`
}

// FromConfig captures the render section of a resolved configuration.
func FromConfig(cfg *config.Config) Settings {
	return Settings{
		Mode:        cfg.Render.Mode,
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		FPS:         cfg.Render.FPS,
		Quality:     cfg.Render.Quality,
		ColorScheme: cfg.Render.ColorScheme,
		ASCIIWidth:  cfg.Render.ASCIIWidth,
		Charset:     cfg.Render.Charset,
	}
}

// Apply overlays the preset onto a configuration's render section.
func (s Settings) Apply(cfg *config.Config) {
	cfg.Render.Mode = s.Mode
	cfg.Render.Width = s.Width
	cfg.Render.Height = s.Height
	cfg.Render.FPS = s.FPS
	cfg.Render.Quality = s.Quality
	cfg.Render.ColorScheme = s.ColorScheme
	cfg.Render.ASCIIWidth = s.ASCIIWidth
	cfg.Render.Charset = s.Charset
}

// Validate rejects settings that the pipeline could not execute.
func (s Settings) Validate() error {
	if _, err := visualize.ModeByName(s.Mode); err != nil {
		return services.Wrap(services.ErrValidation, "preset", "validate", fmt.Sprintf("unknown mode %q", s.Mode), nil)
	}
	if _, err := quality.Parse(s.Quality); err != nil {
		return services.Wrap(services.ErrValidation, "preset", "validate", fmt.Sprintf("unknown quality %q", s.Quality), nil)
	}
	if s.ColorScheme != "" {
		if _, err := visualize.SchemeByName(s.ColorScheme); err != nil {
			return services.Wrap(services.ErrValidation, "preset", "validate", fmt.Sprintf("unknown color scheme %q", s.ColorScheme), nil)
		}
	}
	switch s.Charset {
	case "ansi", "ascii", "utf8":
	default:
		return services.Wrap(services.ErrValidation, "preset", "validate", fmt.Sprintf("unknown charset %q", s.Charset), nil)
	}
	if s.Width < 64 || s.Height < 64 {
		return services.Wrap(services.ErrValidation, "preset", "validate", "width and height must be at least 64", nil)
	}
	if s.FPS < 1 || s.FPS > 120 {
		return services.Wrap(services.ErrValidation, "preset", "validate", "fps must be between 1 and 120", nil)
	}
	if s.ASCIIWidth < 20 || s.ASCIIWidth > 400 {
		return services.Wrap(services.ErrValidation, "preset", "validate", "ascii_width must be between 20 and 400", nil)
	}
	return nil
}

// Info describes a stored preset for listing.
type Info struct {
	Name     string
	Settings Settings
	Modified time.Time
}

// Manager reads and writes preset files under a single directory.
type Manager struct {
	dir string
}

// NewManager returns a manager rooted at the configured preset directory.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{dir: cfg.Paths.PresetDir}
}

// NewManagerAt returns a manager rooted at an explicit directory.
func NewManagerAt(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the preset directory.
func (m *Manager) Dir() string { return m.dir }

// EnsureDefault writes a "default" preset from the given settings unless one
// already exists.
func (m *Manager) EnsureDefault(settings Settings) error {
	if _, err := os.Stat(m.pathFor("default")); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat default preset: %w", err)
	}
	return m.Save("default", settings)
}

// Save validates and writes a preset file, overwriting any existing one.
func (m *Manager) Save(name string, settings Settings) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode preset %q: %w", name, err)
	}
	if err := os.WriteFile(m.pathFor(name), data, 0o644); err != nil {
		return fmt.Errorf("write preset %q: %w", name, err)
	}
	return nil
}

// Load reads and validates a stored preset.
func (m *Manager) Load(name string) (Settings, error) {
	if err := validateName(name); err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(m.pathFor(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, services.Wrap(services.ErrNotFound, "preset", "load", fmt.Sprintf("preset %q does not exist", name), nil)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read preset %q: %w", name, err)
	}
	return decodeSettings(name, data)
}

// List returns all stored presets sorted by name.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preset dir: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), fileExtension)
		settings, err := m.Load(name)
		if err != nil {
			continue
		}
		info := Info{Name: name, Settings: settings}
		if stat, err := entry.Info(); err == nil {
			info.Modified = stat.ModTime()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a stored preset.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(m.pathFor(name))
	if errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "preset", "delete", fmt.Sprintf("preset %q does not exist", name), nil)
	}
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	return nil
}

// Export renders a preset as portable text: a header line naming the preset
// followed by its base64-encoded TOML body.
func (m *Manager) Export(name string) (string, error) {
	settings, err := m.Load(name)
	if err != nil {
		return "", err
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode preset %q: %w", name, err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("%s %s\n%s\n", exportHeader, name, encoded), nil
}

// Import parses exported preset text, stores it, and returns the preset name.
// An existing preset of the same name is overwritten.
func (m *Manager) Import(text string) (string, error) {
	lines := strings.SplitN(strings.TrimSpace(text), "\n", 2)
	if len(lines) != 2 {
		return "", services.Wrap(services.ErrValidation, "preset", "import", "expected header line and payload", nil)
	}
	header := strings.Fields(strings.TrimSpace(lines[0]))
	if len(header) != 2 || header[0] != exportHeader {
		return "", services.Wrap(services.ErrValidation, "preset", "import", "unrecognized preset header", nil)
	}
	name := header[1]
	if err := validateName(name); err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(lines[1]))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "preset", "import", "payload is not valid base64", err)
	}
	settings, err := decodeSettings(name, data)
	if err != nil {
		return "", err
	}
	if err := m.Save(name, settings); err != nil {
		return "", err
	}
	return name, nil
}

func (m *Manager) pathFor(name string) string {
	return filepath.Join(m.dir, name+fileExtension)
}

func decodeSettings(name string, data []byte) (Settings, error) {
	var settings Settings
	decoder := toml.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, services.Wrap(services.ErrValidation, "preset", "decode", fmt.Sprintf("preset %q contains unrecognized keys", name), nil)
		}
		return Settings{}, services.Wrap(services.ErrValidation, "preset", "decode", fmt.Sprintf("preset %q is not valid TOML", name), err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return services.Wrap(services.ErrValidation, "preset", "name", fmt.Sprintf("invalid preset name %q", name), nil)
	}
	return nil
}
