package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write presets file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writeFile(t, "presets.yaml", `
presets:
  - id: earth
    name: Earth Porn
    feed: EarthPorn
    sort: top
    time_window: week
    limit: 500
  - id: aww
    feed: aww+eyebleach
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 presets, got %d", got)
	}

	p, ok := reg.ByID("earth")
	if !ok {
		t.Fatalf("expected preset earth")
	}
	if p.Limit != 100 || p.Sort != "top" || p.TimeWindow != "week" {
		t.Fatalf("unexpected preset %+v", p)
	}

	aww, _ := reg.ByID("aww")
	if aww.Name != "aww+eyebleach" || aww.Sort != "best" || aww.Limit != domain.DefaultLimit {
		t.Fatalf("defaults not applied: %+v", aww)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	file := writeFile(t, "presets.json", `{"presets":[{"id":"pics","feed":"pics","sort":"new"}]}`)
	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if p, ok := reg.ByID("pics"); !ok || p.Sort != "new" {
		t.Fatalf("unexpected preset %+v ok=%v", p, ok)
	}
}

func TestLoadRegistryRejectsDuplicateAndMissingFeed(t *testing.T) {
	dup := writeFile(t, "dup.yaml", `
presets:
  - id: x
    feed: a
  - id: x
    feed: b
`)
	if _, err := LoadRegistry(dup); err == nil {
		t.Fatalf("expected duplicate preset error")
	}

	missing := writeFile(t, "missing.yaml", `
presets:
  - id: x
`)
	if _, err := LoadRegistry(missing); err == nil {
		t.Fatalf("expected missing feed error")
	}
}

func TestLoadRegistryEmptyPath(t *testing.T) {
	reg, err := LoadRegistry("  ")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestPresetApplyKeepsLayout(t *testing.T) {
	p := Preset{Feed: "pics", Sort: "top", TimeWindow: "all", Limit: 20}
	in := p.Apply(domain.ViewInput{ClientID: "cid", Layout: "list", Feed: "old"})
	if in.Feed != "pics" || in.Limit != "20" || in.Layout != "list" || in.ClientID != "cid" {
		t.Fatalf("unexpected input %+v", in)
	}
}
