package puzzles

import (
	"testing"

	"verdin.dev/verdin/clvm"
)

func TestTemplateHashesAreDistinct(t *testing.T) {
	hashes := map[clvm.Hash]string{
		SingletonTopLayerModHash: "singleton top layer",
		LauncherPuzzleHash:       "launcher",
		P2BLSModHash:             "p2 bls",
	}
	if len(hashes) != 3 {
		t.Fatalf("template hashes collide: %v", hashes)
	}
}

func TestTemplateHashesAreStable(t *testing.T) {
	if got := clvm.TreeHash(SingletonTopLayer()); got != SingletonTopLayerModHash {
		t.Fatalf("top layer hash drifted: %s", got)
	}
	if got := clvm.TreeHash(SingletonLauncher()); got != LauncherPuzzleHash {
		t.Fatalf("launcher hash drifted: %s", got)
	}
	if got := clvm.TreeHash(P2BLS()); got != P2BLSModHash {
		t.Fatalf("p2 hash drifted: %s", got)
	}
}

func TestTemplatesSurviveSerialization(t *testing.T) {
	for name, n := range map[string]*clvm.Node{
		"top layer": SingletonTopLayer(),
		"launcher":  SingletonLauncher(),
		"p2 bls":    P2BLS(),
	} {
		back, err := clvm.Deserialize(clvm.Serialize(n))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if clvm.TreeHash(back) != clvm.TreeHash(n) {
			t.Fatalf("%s: hash changed across serialization", name)
		}
	}
}
