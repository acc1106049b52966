//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, race).
type Test mg.Namespace

// All runs every test, including the CLI tests under cmd/.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Unit runs the library packages only.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "./pkg/...", "./internal/...")
}

// Race runs every test with the race detector. The store, selectors and
// order allocator have concurrent tests.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}
