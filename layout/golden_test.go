package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ringfield/colordb"
)

// planDigest hashes the full circle sequence into a stable hex digest.
// Floats are formatted at full precision, so any drift in the entropy
// stream or the placement pipeline changes the digest.
func planDigest(p *Plan) string {
	h := sha256.New()
	for _, c := range p.Seq.Circles {
		fmt.Fprintf(h, "%d %d %x %x %x %x %x %x %x %x %x %d %x\n",
			c.Seq, c.Group,
			c.X, c.Y, c.Scale,
			c.Primary.H, c.Primary.S, c.Primary.B,
			c.Secondary.H, c.Secondary.S, c.Secondary.B,
			c.Bullseye.Rings, c.Bullseye.Density)
	}
	fmt.Fprintf(h, "groups %v splatter %d\n", p.Seq.GroupSizes, p.Seq.SplatterStart)
	return hex.EncodeToString(h.Sum(nil))
}

// TestGoldenDigest pins the layout of a few fixed seeds. A missing
// digest file is recorded on the spot, so the first run of a fresh
// checkout materializes the goldens and every later run verifies
// against them. Run with RINGFIELD_UPDATE_GOLDENS=1 to re-record
// after an intentional layout change.
func TestGoldenDigest(t *testing.T) {
	seeds := []string{
		"33c9c5c70644fbbb0a7b4eb8871c1e73e0e0c90a5f67be1b190364eb4b830000",
		"e44ee23c44585e42aeb1b4132fb12bd6ec238b033e877b39cefcffff10a90000",
	}

	logger := testLogger()
	db := colordb.FromBundle()

	for _, seedHex := range seeds {
		t.Run(seedHex[:8], func(t *testing.T) {
			seed, err := hex.DecodeString(seedHex)
			if err != nil {
				t.Fatal(err)
			}
			plan, err := Build(seed, db, Options{}, logger)
			if err != nil {
				t.Fatal(err)
			}
			digest := planDigest(plan)

			path := filepath.Join("testdata", "digest_"+seedHex[:8]+".txt")
			record := os.Getenv("RINGFIELD_UPDATE_GOLDENS") != ""
			if !record {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					record = true
				}
			}
			if record {
				if err := os.MkdirAll("testdata", 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, []byte(digest+"\n"), 0644); err != nil {
					t.Fatal(err)
				}
				t.Logf("recorded digest at %s", path)
				return
			}

			want, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := digest; got != strings.TrimSpace(string(want)) {
				t.Errorf("digest = %s, want %s", got, strings.TrimSpace(string(want)))
			}
		})
	}
}
