//go:build !darwin

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Error("topwatch needs macOS: the clock window is built on AppKit")
	os.Exit(1)
}
