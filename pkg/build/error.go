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

package build

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Error describes a failed build: a non-zero compiler exit, a blown
// compile budget, or a clean exit that left no artifact behind.
type Error struct {
	Source   string
	ExitCode int
	Timeout  bool
	Stderr   string
}

func (err *Error) Error() string {
	base := filepath.Base(err.Source)

	switch {
	case err.Timeout:
		return fmt.Sprintf("build: %s: compile timed out", base)
	case err.ExitCode != 0:
		return fmt.Sprintf("build: %s: compiler exited with code %d", base, err.ExitCode)
	default:
		return fmt.Sprintf("build: %s: compiler exited cleanly but produced no artifact", base)
	}
}

// IsTimeout reports whether err is a build error caused by the compile
// budget running out.
func IsTimeout(err error) bool {
	var buildErr *Error
	return errors.As(err, &buildErr) && buildErr.Timeout
}
