package main

import (
	"aviutl2-cli/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point for au2.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// au2 drives the development loop of an AviUtl2 plugin from a single
// aviutl2.toml manifest:
//   - init writes a starter manifest and .gitignore entries
//   - prepare installs AviUtl2 into a project-local directory and links the
//     declared artifacts into its data directory
//   - develop runs the build commands and refreshes copied artifacts before
//     starting AviUtl2
//   - preview, release and catalog stage a clean copy of the artifacts and turn
//     it into a preview install, an .au2pkg.zip package or a catalog.json manifest
//
// Any error aborts the command and exits with a non-zero status.
func main() {
	cmd.Execute()
}
