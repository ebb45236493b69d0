// Copyright © 2026 The Colosseum Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package build turns a submitted player source file into a runnable
// executable. Paths without a recognized source extension are passed
// through untouched, so prebuilt binaries need no special casing by
// callers.
package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/backrank/colosseum/pkg/common"
)

// DefaultTimeout bounds a single toolchain invocation.
const DefaultTimeout = 30 * time.Second

// Toolchain is one compiler invocation shape: the compiler binary and
// the flags placed before the trailing "-o <output> <source>".
type Toolchain struct {
	Compiler string   `yaml:"compiler"`
	Flags    []string `yaml:"flags"`
}

// Builder compiles player sources into executables inside OutputDir.
// The zero value is not usable; call New.
type Builder struct {
	// Toolchains maps a lowercased source extension (".cpp") to the
	// toolchain that builds it. Extensions absent from the map are
	// treated as prebuilt executables.
	Toolchains map[string]Toolchain

	// OutputDir receives the built artifacts.
	OutputDir string

	// Timeout bounds each toolchain invocation.
	Timeout time.Duration
}

// New returns a Builder with the stock C/C++ toolchains, writing
// artifacts to the shared binary directory.
func New() *Builder {
	gpp := Toolchain{Compiler: "g++", Flags: []string{"-O2", "-std=c++17"}}

	return &Builder{
		Toolchains: map[string]Toolchain{
			".cpp": gpp,
			".cc":  gpp,
			".c":   {Compiler: "gcc", Flags: []string{"-O2"}},
		},
		OutputDir: common.BinaryDirectory,
		Timeout:   DefaultTimeout,
	}
}

// Build materializes source into an executable and returns its path.
// Non-source inputs are returned unchanged. The artifact is left on
// disk; its lifetime is the caller's responsibility.
func (builder *Builder) Build(ctx context.Context, source string) (string, error) {
	toolchain, ok := builder.Toolchains[strings.ToLower(filepath.Ext(source))]
	if !ok {
		return source, nil
	}

	if _, err := os.Stat(source); err != nil {
		return "", err
	}

	common.TryMkdir(builder.OutputDir)
	output := filepath.Join(builder.OutputDir, artifactName(source))

	timeout := builder.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	buildCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, toolchain.Flags...), "-o", output, source)
	logrus.WithFields(logrus.Fields{
		"compiler": toolchain.Compiler,
		"source":   source,
	}).Debug("Building player")

	cmd := exec.CommandContext(buildCtx, toolchain.Compiler, args...)

	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
		return "", &Error{Source: source, Timeout: true, Stderr: stderr.String()}
	}

	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}

		return "", &Error{Source: source, ExitCode: code, Stderr: stderr.String()}
	}

	// A clean exit without an artifact is a toolchain anomaly, not a
	// success.
	if _, err := os.Stat(output); err != nil {
		return "", &Error{Source: source, Stderr: stderr.String()}
	}

	if err := os.Chmod(output, common.Permissions); err != nil {
		return "", err
	}

	return output, nil
}

// artifactName derives a stable output name from the source path, so
// two players that share a base name cannot clobber each other.
func artifactName(source string) string {
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}

	sum := sha256.Sum256([]byte(abs))
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	return base + "-" + hex.EncodeToString(sum[:4])
}
