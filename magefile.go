//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "wordgarden"

var Default = Build

// Build compiles the wordgarden binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/wordgarden")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Integration runs the packages whose tests talk to the real APIs when
// GEMINI_API_KEY or OPENAI_API_KEY is set
func Integration() error {
	return sh.RunV("go", "test", "-count=1", "-v", "./internal/wordlist", "./internal/audio", "./internal/models")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return sh.Copy(dest, binary)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binary)
}
