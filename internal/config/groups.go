package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/playverse/cardbot/internal/render"
)

// ErrUnknownFeature signals a feature name outside the fixed set.
var ErrUnknownFeature = errors.New("unknown feature")

// Feature names configurable per group.
const (
	FeatureGuess  = "guess"
	FeatureVoice  = "voice"
	FeatureLookup = "lookup"
)

// FeatureConfig is one group's settings for one feature. Zero fields fall
// back to the feature's defaults on read.
type FeatureConfig struct {
	Engine    string             `json:"engine"`
	TimeLimit int                `json:"time_limit,omitempty"`
	Info      *render.InfoConfig `json:"info,omitempty"`
}

func featureDefaults(feature string) (FeatureConfig, error) {
	switch feature {
	case FeatureGuess:
		return FeatureConfig{Engine: "iyingdi", TimeLimit: 30}, nil
	case FeatureVoice:
		return FeatureConfig{Engine: "svgdb_jp", TimeLimit: 30}, nil
	case FeatureLookup:
		info := render.DefaultInfoConfig()
		return FeatureConfig{Engine: "iyingdi", Info: &info}, nil
	default:
		return FeatureConfig{}, fmt.Errorf("%q: %w", feature, ErrUnknownFeature)
	}
}

// applyDefaults fills unset fields without overwriting stored ones. The
// layout block merges field by field, so a partial info override keeps
// the remaining defaults.
func applyDefaults(fc, def FeatureConfig) FeatureConfig {
	if fc.Engine == "" {
		fc.Engine = def.Engine
	}
	if fc.TimeLimit == 0 {
		fc.TimeLimit = def.TimeLimit
	}
	switch {
	case fc.Info == nil:
		fc.Info = def.Info
	case def.Info != nil:
		info := mergeInfo(*fc.Info, *def.Info)
		fc.Info = &info
	}
	return fc
}

func mergeInfo(info, def render.InfoConfig) render.InfoConfig {
	if info.FontSize == 0 {
		info.FontSize = def.FontSize
	}
	if info.FontSpacing == 0 {
		info.FontSpacing = def.FontSpacing
	}
	if info.CountMax == 0 {
		info.CountMax = def.CountMax
	}
	if info.LineSizeMax == 0 {
		info.LineSizeMax = def.LineSizeMax
	}
	if info.CardMargin == 0 {
		info.CardMargin = def.CardMargin
	}
	return info
}

// Groups persists per-group feature settings as one JSON document keyed
// group id → feature → settings. A missing file reads as all-defaults.
type Groups struct {
	path string
	mu   sync.RWMutex
}

func NewGroups(path string) *Groups {
	return &Groups{path: path}
}

func (g *Groups) load() (map[string]map[string]FeatureConfig, error) {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]map[string]FeatureConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading group config: %w", err)
	}

	var all map[string]map[string]FeatureConfig
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decoding group config: %w", err)
	}
	if all == nil {
		all = map[string]map[string]FeatureConfig{}
	}
	return all, nil
}

func (g *Groups) save(all map[string]map[string]FeatureConfig) error {
	data, err := json.MarshalIndent(all, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding group config: %w", err)
	}
	if err := os.WriteFile(g.path, data, 0o644); err != nil {
		return fmt.Errorf("writing group config: %w", err)
	}
	return nil
}

// Feature returns the group's stored settings for the feature with
// defaults filled in.
func (g *Groups) Feature(gid, feature string) (FeatureConfig, error) {
	def, err := featureDefaults(feature)
	if err != nil {
		return FeatureConfig{}, err
	}

	g.mu.RLock()
	all, err := g.load()
	g.mu.RUnlock()
	if err != nil {
		return FeatureConfig{}, err
	}

	return applyDefaults(all[gid][feature], def), nil
}

// SetFeature stores the group's settings for the feature. Other groups
// and features in the document are preserved.
func (g *Groups) SetFeature(gid, feature string, fc FeatureConfig) error {
	if _, err := featureDefaults(feature); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	all, err := g.load()
	if err != nil {
		return err
	}
	if all[gid] == nil {
		all[gid] = map[string]FeatureConfig{}
	}
	all[gid][feature] = fc
	return g.save(all)
}
