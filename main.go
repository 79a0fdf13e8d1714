// Package main is the entry point for the Playcap CLI application.
// It manages authentication state and recording-session uploads for the
// Playcap desktop capture client.
package main

import (
	"playcap/cli/cmd"
)

// main is the entry point for the Playcap CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
