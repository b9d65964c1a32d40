package devices

import (
	"context"
	"errors"
	"testing"

	"asciisymphony/internal/config"
	"asciisymphony/internal/services"
)

const pactlOutput = `Source #1
	State: SUSPENDED
	Name: alsa_output.pci-0000_00_1f.3.analog-stereo.monitor
	Description: Monitor of Built-in Audio Analog Stereo
	Channels: 2ch stereo

Source #2
	State: RUNNING
	Name: alsa_input.usb-mic.mono-fallback
	Channels: 1ch mono

Source #3
	Name: surround_rig
	Channels: 5.1 surround
`

func TestParsePulseSources(t *testing.T) {
	devices := parsePulseSources(pactlOutput)
	if len(devices) != 3 {
		t.Fatalf("len(devices) = %d, want 3", len(devices))
	}

	monitor := devices[0]
	if monitor.ID != "1" || monitor.Name != "alsa_output.pci-0000_00_1f.3.analog-stereo.monitor" {
		t.Fatalf("monitor = %+v", monitor)
	}
	if monitor.Channels != 2 || monitor.System != "pulse" {
		t.Fatalf("monitor = %+v", monitor)
	}
	if devices[1].Channels != 1 {
		t.Fatalf("mono device channels = %d", devices[1].Channels)
	}
	if devices[2].Channels != 6 {
		t.Fatalf("surround device channels = %d", devices[2].Channels)
	}
}

func TestParsePulseSourcesSkipsNameless(t *testing.T) {
	devices := parsePulseSources("Source #7\n\tState: IDLE\n")
	if len(devices) != 0 {
		t.Fatalf("devices = %v, want none", devices)
	}
}

func TestParseChannels(t *testing.T) {
	cases := map[string]int{
		"2ch stereo":   2,
		"1ch mono":     1,
		"5.1 surround": 6,
		"4":            4,
		"garbage":      2,
	}
	for input, want := range cases {
		if got := parseChannels(input); got != want {
			t.Errorf("parseChannels(%q) = %d, want %d", input, got, want)
		}
	}
}

type fakeOutput struct {
	out []byte
	err error
}

func (f fakeOutput) Output(context.Context, string, []string) ([]byte, error) {
	return f.out, f.err
}

func testManager(t *testing.T, run outputRunner) *Manager {
	t.Helper()
	cfg := config.Default()
	cfg.Tools.Pactl = "pactl"
	manager := NewManager(&cfg, nil)
	manager.run = run
	return manager
}

func TestListAlwaysIncludesDefault(t *testing.T) {
	manager := testManager(t, fakeOutput{err: errors.New("no pulse daemon")})

	devices := manager.List(context.Background())
	if len(devices) != 1 {
		t.Fatalf("devices = %v, want just the default", devices)
	}
	if !devices[0].IsDefault || devices[0].ID != "default" {
		t.Fatalf("default device = %+v", devices[0])
	}
}

func TestListMergesEnumeratedSources(t *testing.T) {
	manager := testManager(t, fakeOutput{out: []byte(pactlOutput)})

	devices := manager.List(context.Background())
	if len(devices) != 4 {
		t.Fatalf("len(devices) = %d, want 4", len(devices))
	}
	if !devices[0].IsDefault {
		t.Fatal("default device must lead the list")
	}
}

func TestResolve(t *testing.T) {
	manager := testManager(t, fakeOutput{out: []byte(pactlOutput)})
	ctx := context.Background()

	device, err := manager.Resolve(ctx, "")
	if err != nil || !device.IsDefault {
		t.Fatalf("Resolve default = %+v, %v", device, err)
	}

	device, err = manager.Resolve(ctx, "2")
	if err != nil || device.Name != "alsa_input.usb-mic.mono-fallback" {
		t.Fatalf("Resolve by id = %+v, %v", device, err)
	}

	device, err = manager.Resolve(ctx, "surround_rig")
	if err != nil || device.ID != "3" {
		t.Fatalf("Resolve by name = %+v, %v", device, err)
	}

	if _, err := manager.Resolve(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCaptureRejectsZeroDuration(t *testing.T) {
	manager := testManager(t, fakeOutput{})

	err := manager.Capture(context.Background(), Device{IsDefault: true}, 0, "/tmp/out.wav")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
