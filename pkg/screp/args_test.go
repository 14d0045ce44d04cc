package screp_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

func TestBuildArguments_Defaults(t *testing.T) {
	args, err := screp.BuildArguments(screp.Resolve(screp.Options{}), false)
	if err != nil {
		t.Fatalf("BuildArguments: %v", err)
	}
	want := []string{
		"-cmds=false",
		"-computed=true",
		"-header=true",
		"-map=false",
		"-mapgfx=false",
		"-mapres=false",
		"-maptiles=false",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArguments_HashAndStdin(t *testing.T) {
	opts := screp.Resolve(screp.Options{
		IncludeCommands:      screp.Bool(true),
		IncludeMapData:       screp.Bool(true),
		IncludeMapTiles:      screp.Bool(true),
		IncludeMapDataHash:   screp.Bool(true),
		MapDataHashAlgorithm: screp.HashSHA256,
	})
	args, err := screp.BuildArguments(opts, true)
	if err != nil {
		t.Fatalf("BuildArguments: %v", err)
	}
	want := []string{
		"-cmds=true",
		"-computed=true",
		"-header=true",
		"-map=true",
		"-mapDataHash=sha256",
		"-mapgfx=false",
		"-mapres=false",
		"-maptiles=true",
		"-stdin",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArguments_Deterministic(t *testing.T) {
	opts := screp.Resolve(screp.Options{IncludeMapData: screp.Bool(true), IncludeMapGraphics: screp.Bool(true)})
	first, _ := screp.BuildArguments(opts, false)
	for i := 0; i < 5; i++ {
		again, _ := screp.BuildArguments(opts, false)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("call %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestBuildArguments_SkipsAbsentFlags(t *testing.T) {
	args, err := screp.BuildArguments(screp.Options{IncludeMapData: screp.Bool(false)}, false)
	if err != nil {
		t.Fatalf("BuildArguments: %v", err)
	}
	if diff := cmp.Diff([]string{"-map=false"}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArguments_HashWithoutAlgorithm(t *testing.T) {
	if _, err := screp.BuildArguments(screp.Options{IncludeMapDataHash: screp.Bool(true)}, false); err == nil {
		t.Fatalf("expected error for hash flag without algorithm")
	}
}

func TestFlagName(t *testing.T) {
	if f, ok := screp.FlagName(screp.KeyIncludeMapResourceLocations); !ok || f != "mapres" {
		t.Fatalf("FlagName(mapres) = %q, %v", f, ok)
	}
	if _, ok := screp.FlagName(screp.KeyMapDataHashAlgorithm); ok {
		t.Fatalf("algorithm key must not map to a flag")
	}
	if _, ok := screp.FlagName("nope"); ok {
		t.Fatalf("unknown key mapped to a flag")
	}
}
