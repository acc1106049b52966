//go:build mage

// Package main provides build targets for the samwise project using Mage.
//
// Usage:
//
//	mage build        Compile the samwise binary to bin/
//	mage install      Install samwise to GOPATH/bin
//	mage test:all     Run every test
//	mage test:unit    Run the library packages only (pkg/, internal/)
//	mage test:race    Run every test with the race detector
//	mage lint         Run go vet and golangci-lint
//	mage clean        Remove build artifacts
//	mage stats        Print Go lines of code per package
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "samwise"
	binaryDir  = "bin"
	cmdDir     = "./cmd/samwise"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the samwise binary to bin/. VERSION, when set, is stamped
// into the binary.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := os.Getenv("VERSION"); v != "" {
		args = append(args, "-ldflags", "-X main.version="+v)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}
