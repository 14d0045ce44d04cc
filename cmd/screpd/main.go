// screpd runs the screp replay parser with typed options, either once from
// the command line or as a gRPC service on a unix socket.
//
// Usage:
//
//	screpd run [--map --map-tiles ...] <replay|->
//	screpd version
//	screpd check
//	screpd args [--stdin] [option flags]
//	screpd serve [--socket=<path>]
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
