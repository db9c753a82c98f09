// Command seedinfo decodes a seed and prints the trait vector it encodes.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/layout"
	"github.com/pthm-cable/ringfield/traits"
)

func main() {
	seedHex := flag.String("seed", "", "64-hex-digit seed")
	doLayout := flag.Bool("layout", false, "Also run the layout phase and print sequence stats")
	flag.Parse()

	if *seedHex == "" {
		fmt.Fprintln(os.Stderr, "usage: seedinfo -seed <64 hex digits> [-layout]")
		os.Exit(2)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(*seedHex, "0x"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "seedinfo: decoding seed: %v\n", err)
		os.Exit(1)
	}
	if len(raw) != 32 {
		fmt.Fprintf(os.Stderr, "seedinfo: seed must be 32 bytes, got %d\n", len(raw))
		os.Exit(1)
	}

	var seed [32]byte
	copy(seed[:], raw)
	tr := traits.FromSeed(&seed)

	fmt.Printf("seed            %s\n", hex.EncodeToString(raw))
	fmt.Printf("version         %s\n", tr.Version)
	fmt.Printf("flow_field      %s\n", tr.FlowField)
	fmt.Printf("turbulence      %s\n", tr.Turbulence)
	fmt.Printf("margin          %s\n", tr.Margin)
	fmt.Printf("color_variety   %s\n", tr.ColorVariety)
	fmt.Printf("color_mode      %s\n", tr.ColorMode)
	fmt.Printf("structure       %s\n", tr.Structure)
	fmt.Printf("bullseye_rings  %v\n", tr.BullseyeRings.Rings())
	fmt.Printf("ring_thickness  %s\n", tr.RingThickness)
	fmt.Printf("ring_size       %s\n", tr.RingSize)
	fmt.Printf("size_variety    %s\n", tr.SizeVariety)
	fmt.Printf("palette         %s\n", tr.Palette)
	fmt.Printf("spacing         %s\n", tr.Spacing)

	if *doLayout {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		plan, err := layout.Build(raw, colordb.FromBundle(), layout.Options{}, quiet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seedinfo: layout: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("circles         %d\n", len(plan.Seq.Circles))
		fmt.Printf("groups          %d\n", len(plan.Seq.GroupSizes))
		fmt.Printf("splatters       %d\n", len(plan.Seq.Circles)-plan.Seq.SplatterStart)
		fmt.Printf("colors_used     %d\n", plan.ColorsUsed.Len())
	}
}
