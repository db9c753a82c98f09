package traits

import "fmt"

func (f FlowFieldKind) String() string {
	switch f {
	case FlowHorizontal:
		return "horizontal"
	case FlowDiagonal:
		return "diagonal"
	case FlowVertical:
		return "vertical"
	case FlowRandomLinear:
		return "random_linear"
	case FlowExplosive:
		return "explosive"
	case FlowSpiral:
		return "spiral"
	case FlowCircular:
		return "circular"
	case FlowRandomRadial:
		return "random_radial"
	}
	return fmt.Sprintf("FlowFieldKind(%d)", uint8(f))
}

func (t Turbulence) String() string {
	switch t {
	case TurbulenceNone:
		return "none"
	case TurbulenceLow:
		return "low"
	case TurbulenceHigh:
		return "high"
	}
	return fmt.Sprintf("Turbulence(%d)", uint8(t))
}

func (m Margin) String() string {
	switch m {
	case MarginNone:
		return "none"
	case MarginCrisp:
		return "crisp"
	case MarginWide:
		return "wide"
	}
	return fmt.Sprintf("Margin(%d)", uint8(m))
}

func (v ColorVariety) String() string {
	switch v {
	case VarietyLow:
		return "low"
	case VarietyMedium:
		return "medium"
	case VarietyHigh:
		return "high"
	}
	return fmt.Sprintf("ColorVariety(%d)", uint8(v))
}

func (m ColorMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeStacked:
		return "stacked"
	case ModeZebra:
		return "zebra"
	}
	return fmt.Sprintf("ColorMode(%d)", uint8(m))
}

func (s Structure) String() string {
	switch s {
	case StructureOrbital:
		return "orbital"
	case StructureFormation:
		return "formation"
	case StructureShadows:
		return "shadows"
	}
	return fmt.Sprintf("Structure(%d)", uint8(s))
}

func (t RingThickness) String() string {
	switch t {
	case ThicknessThin:
		return "thin"
	case ThicknessThick:
		return "thick"
	case ThicknessMixed:
		return "mixed"
	}
	return fmt.Sprintf("RingThickness(%d)", uint8(t))
}

func (s SizeVariety) String() string {
	switch s {
	case SizeConstant:
		return "constant"
	case SizeVariable:
		return "variable"
	case SizeWild:
		return "wild"
	}
	return fmt.Sprintf("SizeVariety(%d)", uint8(s))
}

func (r RingSize) String() string {
	switch r {
	case RingSmall:
		return "small"
	case RingMedium:
		return "medium"
	case RingLarge:
		return "large"
	}
	return fmt.Sprintf("RingSize(%d)", uint8(r))
}

func (p Palette) String() string {
	switch p {
	case PaletteAustin:
		return "austin"
	case PaletteBerlin:
		return "berlin"
	case PaletteEdinburgh:
		return "edinburgh"
	case PaletteFidenza:
		return "fidenza"
	case PaletteMiami:
		return "miami"
	case PaletteSeattle:
		return "seattle"
	case PaletteSeoul:
		return "seoul"
	}
	return fmt.Sprintf("Palette(%d)", uint8(p))
}

func (s Spacing) String() string {
	switch s {
	case SpacingDense:
		return "dense"
	case SpacingMedium:
		return "medium"
	case SpacingSparse:
		return "sparse"
	}
	return fmt.Sprintf("Spacing(%d)", uint8(s))
}

func (v Version) String() string {
	switch v {
	case Unversioned:
		return "unversioned"
	case V0:
		return "v0"
	case V1:
		return "v1"
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// Rings lists the enabled natural ring counts, for display.
func (b BullseyeRings) Rings() []int {
	var out []int
	if b.One {
		out = append(out, 1)
	}
	if b.Three {
		out = append(out, 3)
	}
	if b.Seven {
		out = append(out, 7)
	}
	return out
}
