//go:build mage

// Package main provides build targets for the tradecheck project using Mage.
//
// Usage:
//
//	mage build          Compile the tradecheck binary to bin/
//	mage run            Build, then serve with the default configuration
//	mage test:all       Run all tests
//	mage test:unit      Run tests without the HTTP round-trip suites
//	mage test:cover     Run all tests and write coverage.out
//	mage lint           Run golangci-lint
//	mage vet            Run go vet
//	mage clean          Remove build artifacts
//	mage install        Install tradecheck to GOPATH/bin
//	mage stats          Print Go LOC and locale key counts
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "tradecheck"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tradecheck"
)

// Build compiles the tradecheck binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Run builds and starts the server. Extra flags come from TRADECHECK_ARGS.
func Run() error {
	mg.Deps(Build)
	args := []string{"serve"}
	if extra := os.Getenv("TRADECHECK_ARGS"); extra != "" {
		args = append(args, strings.Fields(extra)...)
	}
	return sh.RunV(filepath.Join(binaryDir, binaryName), args...)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverageFile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
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
