// Package traits decodes a 32-byte seed into the trait vector that
// parameterizes an artwork. Decoding consumes bits from the last four seed
// bytes via a fixed plucking scheme, so a given seed always maps to the
// same traits; the order of the enum values below is part of that scheme
// and must not be rearranged.
package traits

import "encoding/binary"

// FlowFieldKind selects the overall shape of the flow field.
type FlowFieldKind uint8

const (
	FlowHorizontal FlowFieldKind = iota
	FlowDiagonal
	FlowVertical
	FlowRandomLinear
	FlowExplosive
	FlowSpiral
	FlowCircular
	FlowRandomRadial
)

// Turbulence selects how many disturbances perturb the flow field.
type Turbulence uint8

const (
	TurbulenceNone Turbulence = iota
	TurbulenceLow
	TurbulenceHigh
)

// Margin selects how close to the canvas edge circles may be placed.
type Margin uint8

const (
	MarginNone Margin = iota
	MarginCrisp
	MarginWide
)

// ColorVariety selects how many distinct colors an artwork draws from.
type ColorVariety uint8

const (
	VarietyLow ColorVariety = iota
	VarietyMedium
	VarietyHigh
)

// ColorMode selects how primary and secondary colors combine per circle.
type ColorMode uint8

const (
	ModeSimple ColorMode = iota
	ModeStacked
	ModeZebra
)

// Structure selects the start-point layout family.
type Structure uint8

const (
	StructureOrbital Structure = iota
	StructureFormation
	StructureShadows
)

// RingThickness selects the band density regime for bullseyes.
type RingThickness uint8

const (
	ThicknessThin RingThickness = iota
	ThicknessThick
	ThicknessMixed
)

// SizeVariety selects how much circle radii vary within an artwork.
type SizeVariety uint8

const (
	SizeConstant SizeVariety = iota
	SizeVariable
	SizeWild
)

// RingSize selects the base circle scale.
type RingSize uint8

const (
	RingSmall RingSize = iota
	RingMedium
	RingLarge
)

// Palette names one of the bundled color palettes.
type Palette uint8

const (
	PaletteAustin Palette = iota
	PaletteBerlin
	PaletteEdinburgh
	PaletteFidenza
	PaletteMiami
	PaletteSeattle
	PaletteSeoul
)

// Spacing selects the collision-spacing regime.
type Spacing uint8

const (
	SpacingDense Spacing = iota
	SpacingMedium
	SpacingSparse
)

// Version identifies the algorithm revision encoded in the seed.
type Version uint8

const (
	Unversioned Version = iota
	V0
	V1
)

// BullseyeRings records which natural ring counts are enabled.
type BullseyeRings struct {
	One   bool
	Three bool
	Seven bool
}

// Traits is the decoded trait vector for one seed.
type Traits struct {
	FlowField     FlowFieldKind
	Turbulence    Turbulence
	Margin        Margin
	ColorVariety  ColorVariety
	ColorMode     ColorMode
	Structure     Structure
	BullseyeRings BullseyeRings
	RingThickness RingThickness
	RingSize      RingSize
	SizeVariety   SizeVariety
	Palette       Palette
	Spacing       Spacing
	Version       Version
}

// pluck consumes enough bits from seed to index an option table of length
// n (the bit width is n rounded up to a power of two).
func pluck(seed *uint32, n int) int {
	numBits := 0
	for 1<<numBits < n {
		numBits++
	}
	mask := uint32(1)<<numBits - 1
	index := *seed & mask
	*seed >>= numBits
	return int(index % uint32(n))
}

// FromSeed decodes the trait vector from a raw 32-byte seed.
func FromSeed(seed *[32]byte) Traits {
	remaining := binary.BigEndian.Uint32(seed[28:32])
	next := func(n int) int { return pluck(&remaining, n) }
	return Traits{
		FlowField:    FlowFieldKind(next(8)),
		Turbulence:   Turbulence(next(3)),
		Margin:       Margin(next(3)),
		ColorVariety: ColorVariety(next(3)),
		ColorMode:    ColorMode(next(3)),
		Structure:    Structure(next(3)),
		BullseyeRings: BullseyeRings{
			One:   next(2) == 0,
			Three: next(2) == 0,
			Seven: next(2) == 0,
		},
		RingThickness: RingThickness(next(3)),
		RingSize:      RingSize(next(3)),
		SizeVariety:   SizeVariety(next(3)),
		Palette:       Palette(next(7)),
		Spacing:       Spacing(next(3)),
		Version:       versionOf(seed),
	}
}

// versionOf reads the version sentinel: bytes 26..28 equal to 0xffff mark
// a versioned seed, with the version number in the top nibble of byte 28.
func versionOf(seed *[32]byte) Version {
	if seed[26] != 0xff || seed[27] != 0xff {
		return Unversioned
	}
	switch seed[28] >> 4 {
	case 0:
		return V0
	case 1:
		return V1
	default:
		return Unversioned
	}
}
