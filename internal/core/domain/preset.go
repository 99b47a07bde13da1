package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named compression aggressiveness level. The backend decides
// what the settings mean; the search only relies on Rank.
type Preset struct {
	// Name identifies the preset on the command line and in reports.
	Name string

	// Rank orders presets by expected aggressiveness. A higher rank is
	// expected to produce a smaller or equal file, though backends do not
	// guarantee it.
	Rank int

	// PDFSettings is the Ghostscript distiller preset, e.g. "/ebook".
	PDFSettings string

	// ImageDPI is the downsampling resolution for colour and grey images.
	// Zero leaves the distiller preset's own resolution in place.
	ImageDPI int

	// JPEGQuality is the DCT quality (0-100) for re-encoded images.
	// Zero leaves the distiller preset's own quality in place.
	JPEGQuality int

	Description string
}

// Built-in quality levels, least to most aggressive.
var (
	PresetLow = Preset{
		Name: "low", Rank: 1, PDFSettings: "/printer", ImageDPI: 150, JPEGQuality: 85,
		Description: "Low compression, high quality",
	}
	PresetMedium = Preset{
		Name: "medium", Rank: 2, PDFSettings: "/ebook", ImageDPI: 120, JPEGQuality: 75,
		Description: "Balanced compression and quality",
	}
	PresetHigh = Preset{
		Name: "high", Rank: 3, PDFSettings: "/ebook", ImageDPI: 100, JPEGQuality: 60,
		Description: "High compression, good quality",
	}
	PresetMaximum = Preset{
		Name: "maximum", Rank: 4, PDFSettings: "/screen", ImageDPI: 72, JPEGQuality: 45,
		Description: "Maximum compression, lower quality",
	}
)

// DefaultPreset is used when no quality is given.
var DefaultPreset = PresetMedium

// Presets returns the built-in levels, least to most aggressive.
func Presets() []Preset {
	return []Preset{PresetLow, PresetMedium, PresetHigh, PresetMaximum}
}

// PresetNames returns the built-in level names in rank order.
func PresetNames() []string {
	presets := Presets()
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// LookupPreset resolves a built-in level by name, case-insensitively.
func LookupPreset(name string) (Preset, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown quality %q, choose from: %s", name, strings.Join(PresetNames(), ", "))
}

// ParseLadder resolves a list of names into presets ordered least to most
// aggressive. Duplicates are dropped. An empty list yields every built-in level.
func ParseLadder(names []string) ([]Preset, error) {
	if len(names) == 0 {
		return Presets(), nil
	}

	presets := make([]Preset, 0, len(names))
	for _, name := range names {
		p, err := LookupPreset(name)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return OrderPresets(presets), nil
}

// OrderPresets returns a copy of presets sorted by Rank, keeping the first
// occurrence of each name.
func OrderPresets(presets []Preset) []Preset {
	seen := make(map[string]bool, len(presets))
	ordered := make([]Preset, 0, len(presets))
	for _, p := range presets {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		ordered = append(ordered, p)
	}

	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })
	return ordered
}

func (p Preset) String() string {
	return p.Name
}
