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

package arbiter

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned once every network endpoint has exhausted
// its retries and no local fallback engine exists.
var ErrUnavailable = errors.New("arbiter: all endpoints exhausted and no local fallback")

// Error is a rejected response from an arbiter endpoint: a non-OK
// status, a malformed body, or a well-formed body that fails the
// content predicate. All three are retried like transport failures.
type Error struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (err *Error) Error() string {
	if err.StatusCode != 0 {
		return fmt.Sprintf("arbiter: %s returned %d: %s", err.Endpoint, err.StatusCode, err.Message)
	}

	return fmt.Sprintf("arbiter: %s: %s", err.Endpoint, err.Message)
}
