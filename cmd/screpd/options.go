package main

import (
	"github.com/spf13/pflag"

	"github.com/WangQiHao-Charlie/screpd/internal/config"
	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

// optionFlags maps screp options onto command line flags. Only flags given
// explicitly override the options file.
type optionFlags struct {
	file string

	commands  bool
	computed  bool
	header    bool
	mapData   bool
	graphics  bool
	resources bool
	tiles     bool
	hash      string
}

func (o *optionFlags) register(f *pflag.FlagSet) {
	f.StringVar(&o.file, "options", "", "YAML or JSON options file")
	f.BoolVar(&o.commands, "commands", false, "include player commands")
	f.BoolVar(&o.computed, "computed", true, "include computed statistics")
	f.BoolVar(&o.header, "header", true, "include the replay header")
	f.BoolVar(&o.mapData, "map", false, "include map data")
	f.BoolVar(&o.graphics, "map-graphics", false, "include map graphics (needs --map)")
	f.BoolVar(&o.resources, "map-resources", false, "include map resource locations (needs --map)")
	f.BoolVar(&o.tiles, "map-tiles", false, "include map tiles (needs --map)")
	f.StringVar(&o.hash, "map-data-hash", "", "include the map data hash using sha1, sha256, sha512 or md5")
}

func (o *optionFlags) options(f *pflag.FlagSet) (screp.Options, error) {
	var opts screp.Options
	if o.file != "" {
		loaded, err := config.LoadOptionsFile(o.file)
		if err != nil {
			return screp.Options{}, err
		}
		opts = loaded
	}
	set := func(name string, dst **bool, v bool) {
		if f.Changed(name) {
			*dst = screp.Bool(v)
		}
	}
	set("commands", &opts.IncludeCommands, o.commands)
	set("computed", &opts.IncludeComputedData, o.computed)
	set("header", &opts.IncludeReplayHeader, o.header)
	set("map", &opts.IncludeMapData, o.mapData)
	set("map-graphics", &opts.IncludeMapGraphics, o.graphics)
	set("map-resources", &opts.IncludeMapResourceLocations, o.resources)
	set("map-tiles", &opts.IncludeMapTiles, o.tiles)
	if f.Changed("map-data-hash") {
		opts.IncludeMapDataHash = screp.Bool(o.hash != "")
		opts.MapDataHashAlgorithm = screp.HashAlgorithm(o.hash)
	}
	if err := screp.Validate(opts); err != nil {
		return screp.Options{}, err
	}
	return opts, nil
}
