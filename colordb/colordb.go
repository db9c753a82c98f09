// Package colordb holds the bundled palette database. Palettes are loaded
// once from an embedded yaml file; the rest of the pipeline refers to
// colors by opaque keys so that palette edits cannot reorder the entropy
// stream.
package colordb

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ringfield/traits"
)

//go:embed colors.yaml
var colorsYAML []byte

// Key identifies a color within a DB.
type Key = uint32

// Spec describes one named color as an HSB base value plus the per-draw
// perturbation envelope.
type Spec struct {
	Name string `yaml:"name"`

	Hue         float64 `yaml:"hue"`
	HueMin      float64 `yaml:"hue_min"`
	HueMax      float64 `yaml:"hue_max"`
	HueVariance float64 `yaml:"hue_variance"`

	Sat         float64 `yaml:"sat"`
	SatMin      float64 `yaml:"sat_min"`
	SatMax      float64 `yaml:"sat_max"`
	SatVariance float64 `yaml:"sat_variance"`

	Bright         float64 `yaml:"bright"`
	BrightMin      float64 `yaml:"bright_min"`
	BrightMax      float64 `yaml:"bright_max"`
	BrightVariance float64 `yaml:"bright_variance"`
}

// wire types mirror the yaml layout before name resolution.

type wireBackground struct {
	Color  string `yaml:"color"`
	Weight float64
	// Substitutions maps color names to replacement names; an empty
	// replacement removes the color from the palette for this background.
	Substitutions map[string]string `yaml:"substitutions"`
}

type wireSplatter struct {
	Color  string  `yaml:"color"`
	Weight float64 `yaml:"weight"`
}

type wirePalette struct {
	Name             string           `yaml:"name"`
	ColorSeq         []string         `yaml:"color_seq"`
	BackgroundColors []wireBackground `yaml:"background_colors"`
	SplatterColors   []wireSplatter   `yaml:"splatter_colors"`
}

type wireDB struct {
	Colors   []Spec        `yaml:"colors"`
	Palettes []wirePalette `yaml:"palettes"`
}

// Background is one possible background color with its palette
// substitutions applied when it is chosen.
type Background struct {
	Color  Key
	Weight float64
	// Substitutions maps palette colors to their replacement under this
	// background. A present entry with hasReplacement == false removes the
	// color entirely.
	subs map[Key]substitution
}

type substitution struct {
	replacement    Key
	hasReplacement bool
}

// Substitute resolves a palette color under this background. The second
// return is false when the color is removed from the palette.
func (b *Background) Substitute(c Key) (Key, bool) {
	if s, ok := b.subs[c]; ok {
		return s.replacement, s.hasReplacement
	}
	return c, true
}

// WeightedKey pairs a color key with a selection weight.
type WeightedKey struct {
	Key    Key
	Weight float64
}

// PaletteSpec is a resolved palette.
type PaletteSpec struct {
	ColorSeq         []Key
	BackgroundColors []Background
	SplatterColors   []WeightedKey
}

// DB is the resolved color database.
type DB struct {
	colors   []Spec
	byName   map[string]Key
	palettes map[string]*PaletteSpec
}

var paletteNames = map[traits.Palette]string{
	traits.PaletteAustin:    "austin",
	traits.PaletteBerlin:    "berlin",
	traits.PaletteEdinburgh: "edinburgh",
	traits.PaletteFidenza:   "fidenza",
	traits.PaletteMiami:     "miami",
	traits.PaletteSeattle:   "seattle",
	traits.PaletteSeoul:     "seoul",
}

// FromBundle loads the embedded database. It panics on malformed bundled
// data, which is a build defect rather than a runtime condition.
func FromBundle() *DB {
	db, err := parse(colorsYAML)
	if err != nil {
		panic(fmt.Sprintf("colordb: bundled data invalid: %v", err))
	}
	return db
}

func parse(data []byte) (*DB, error) {
	var wire wireDB
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing color db: %w", err)
	}

	db := &DB{
		colors:   wire.Colors,
		byName:   make(map[string]Key, len(wire.Colors)),
		palettes: make(map[string]*PaletteSpec, len(wire.Palettes)),
	}
	for i, c := range wire.Colors {
		if _, dup := db.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate color %q", c.Name)
		}
		db.byName[c.Name] = Key(i)
	}

	for _, wp := range wire.Palettes {
		if _, dup := db.palettes[wp.Name]; dup {
			return nil, fmt.Errorf("duplicate palette %q", wp.Name)
		}
		find := func(name string) (Key, error) {
			k, ok := db.byName[name]
			if !ok {
				return 0, fmt.Errorf("palette %q: undefined color %q", wp.Name, name)
			}
			return k, nil
		}

		p := &PaletteSpec{}
		for _, name := range wp.ColorSeq {
			k, err := find(name)
			if err != nil {
				return nil, err
			}
			p.ColorSeq = append(p.ColorSeq, k)
		}
		for _, wb := range wp.BackgroundColors {
			k, err := find(wb.Color)
			if err != nil {
				return nil, err
			}
			bg := Background{Color: k, Weight: wb.Weight, subs: map[Key]substitution{}}
			for from, to := range wb.Substitutions {
				fk, err := find(from)
				if err != nil {
					return nil, err
				}
				var s substitution
				if to != "" {
					tk, err := find(to)
					if err != nil {
						return nil, err
					}
					s = substitution{replacement: tk, hasReplacement: true}
				}
				bg.subs[fk] = s
			}
			p.BackgroundColors = append(p.BackgroundColors, bg)
		}
		for _, ws := range wp.SplatterColors {
			k, err := find(ws.Color)
			if err != nil {
				return nil, err
			}
			p.SplatterColors = append(p.SplatterColors, WeightedKey{Key: k, Weight: ws.Weight})
		}
		db.palettes[wp.Name] = p
	}
	return db, nil
}

// Color returns the spec for a key, or nil for an unknown key.
func (db *DB) Color(k Key) *Spec {
	if int(k) >= len(db.colors) {
		return nil
	}
	return &db.colors[k]
}

// ColorByName looks a color up by its bundled name.
func (db *DB) ColorByName(name string) *Spec {
	k, ok := db.byName[name]
	if !ok {
		return nil
	}
	return &db.colors[k]
}

// Palette returns the palette for a decoded palette trait.
func (db *DB) Palette(p traits.Palette) *PaletteSpec {
	return db.palettes[paletteNames[p]]
}
