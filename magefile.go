//go:build mage

package main

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "reviewbot"

// Default is the target mage runs when none is named.
var Default = CI

// CI runs the full pipeline: format, lint, test, build.
func CI() {
	mg.SerialDeps(Format, Lint, Test, Build)
}

// Format rewrites Go sources with gofmt.
func Format() error {
	return run("go", "fmt", "./...")
}

// Lint runs go vet across the module.
func Lint() error {
	return run("go", "vet", "./...")
}

// Test runs the test suite for every package.
func Test() error {
	return run("go", "test", "./...")
}

// Build compiles all packages and produces the reviewbot binary with the
// release version stamped in.
func Build() error {
	if err := run("go", "build", "./..."); err != nil {
		return err
	}

	ldflags := "-X github.com/reviewbotdev/reviewbot/internal/version.version=" + resolveVersion()
	return run("go", "build", "-ldflags", ldflags, "-o", binary, "./cmd/"+binary)
}

// Docker builds the Action container image.
func Docker() error {
	return run("docker", "build", "-t", binary+":local", ".")
}

func run(cmd string, args ...string) error {
	if err := sh.RunV(cmd, args...); err != nil {
		return fmt.Errorf("%s %s: %w", cmd, strings.Join(args, " "), err)
	}
	return nil
}

// resolveVersion derives the version to stamp from git state: the nearest
// tag, with -dirty appended when the tree has uncommitted changes or HEAD
// has moved past the tag.
func resolveVersion() string {
	tag, err := gitOutput("describe", "--tags", "--abbrev=0")
	if err != nil || tag == "" {
		return "v0.0.0"
	}

	if repoDirty() || !headIsTagged() {
		return tag + "-dirty"
	}
	return tag
}

func repoDirty() bool {
	status, err := gitOutput("status", "--porcelain")
	return err == nil && status != ""
}

func headIsTagged() bool {
	_, err := gitOutput("describe", "--tags", "--exact-match")
	return err == nil
}

// gitOutput runs a git subcommand and returns its trimmed stdout. Output
// keeps git's stderr off the build log; failures carry it in the error.
func gitOutput(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) && len(exit.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(exit.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
