package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/playverse/cardbot/internal/render"
)

func testGroups(t *testing.T) *Groups {
	t.Helper()
	return NewGroups(filepath.Join(t.TempDir(), "config.json"))
}

func TestFeatureMissingFileYieldsDefaults(t *testing.T) {
	g := testGroups(t)

	fc, err := g.Feature("42", FeatureGuess)
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if fc.Engine != "iyingdi" || fc.TimeLimit != 30 {
		t.Errorf("guess defaults = %+v", fc)
	}

	fc, err = g.Feature("42", FeatureVoice)
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if fc.Engine != "svgdb_jp" {
		t.Errorf("voice default engine = %q", fc.Engine)
	}

	fc, err = g.Feature("42", FeatureLookup)
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if fc.Info == nil || fc.Info.LineSizeMax != 40 {
		t.Errorf("lookup layout defaults = %+v", fc.Info)
	}
}

func TestSetFeatureRoundTrip(t *testing.T) {
	g := testGroups(t)

	if err := g.SetFeature("42", FeatureGuess, FeatureConfig{Engine: "bagoum_en"}); err != nil {
		t.Fatalf("SetFeature: %v", err)
	}

	fc, err := g.Feature("42", FeatureGuess)
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if fc.Engine != "bagoum_en" {
		t.Errorf("engine = %q, want the stored override", fc.Engine)
	}
	if fc.TimeLimit != 30 {
		t.Errorf("time_limit = %d, want the default filled in", fc.TimeLimit)
	}
}

func TestPartialInfoKeepsLayoutDefaults(t *testing.T) {
	g := testGroups(t)

	err := g.SetFeature("42", FeatureLookup, FeatureConfig{
		Engine: "svgdb_en",
		Info:   &render.InfoConfig{LineSizeMax: 20},
	})
	if err != nil {
		t.Fatalf("SetFeature: %v", err)
	}

	fc, err := g.Feature("42", FeatureLookup)
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if fc.Info.LineSizeMax != 20 {
		t.Errorf("line_size_max = %d, want the stored override", fc.Info.LineSizeMax)
	}
	def := render.DefaultInfoConfig()
	if fc.Info.CountMax != def.CountMax || fc.Info.FontSize != def.FontSize ||
		fc.Info.FontSpacing != def.FontSpacing || fc.Info.CardMargin != def.CardMargin {
		t.Errorf("layout = %+v, want unset fields filled from defaults", fc.Info)
	}
}

func TestSetFeaturePreservesOtherGroups(t *testing.T) {
	g := testGroups(t)

	if err := g.SetFeature("1", FeatureGuess, FeatureConfig{Engine: "svgdb_en"}); err != nil {
		t.Fatal(err)
	}
	if err := g.SetFeature("2", FeatureVoice, FeatureConfig{Engine: "bagoum_jp", TimeLimit: 60}); err != nil {
		t.Fatal(err)
	}

	fc, err := g.Feature("1", FeatureGuess)
	if err != nil {
		t.Fatal(err)
	}
	if fc.Engine != "svgdb_en" {
		t.Errorf("group 1 engine = %q after writing group 2", fc.Engine)
	}

	fc, err = g.Feature("2", FeatureVoice)
	if err != nil {
		t.Fatal(err)
	}
	if fc.TimeLimit != 60 {
		t.Errorf("group 2 time_limit = %d", fc.TimeLimit)
	}
}

func TestUnknownFeature(t *testing.T) {
	g := testGroups(t)

	if _, err := g.Feature("1", "karaoke"); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("Feature error = %v, want ErrUnknownFeature", err)
	}
	if err := g.SetFeature("1", "karaoke", FeatureConfig{}); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("SetFeature error = %v, want ErrUnknownFeature", err)
	}
}
