package main

import "os"

// Version variable, filled in at link time
var Version string

func main() {
	if Version == "" {
		Version = "unknown"
	}

	os.Exit(Run(RootCommand(), os.Args[1:], true))
}
