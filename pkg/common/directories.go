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

// Package common holds the on-disk layout shared by the colosseum
// commands: the home directory, the compiled-player bin and the local
// arbiter engine directory.
package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const Permissions = 0755

var (
	// Directory is colosseum's home, ~/colosseum by default.
	Directory = filepath.Join(xdg.Home, "colosseum")

	// BinaryDirectory holds player executables produced by the builder.
	BinaryDirectory = filepath.Join(Directory, "bin")

	// EnginesDirectory holds locally installed arbiter engines used as
	// the adjudication fallback when no endpoint is reachable.
	EnginesDirectory = filepath.Join(Directory, "engines")
)

// LocalArbiterName is the binary the arbiter client looks for in
// EnginesDirectory and on $PATH.
const LocalArbiterName = "arbiter"

func TryMkdir(dir string) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		_ = os.MkdirAll(dir, Permissions)
	}
}

func init() {
	TryMkdir(Directory)
	TryMkdir(BinaryDirectory)
	TryMkdir(EnginesDirectory)
}
