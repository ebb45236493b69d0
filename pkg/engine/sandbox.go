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

package engine

// Sandbox places a player command line inside an isolation boundary
// before it is spawned. Submitted programs are untrusted; which
// mechanism provides the boundary (bwrap, firejail, a restricted
// user) is the deployment's choice, not this package's.
type Sandbox interface {
	Wrap(name string, args []string) (string, []string)
}

// Wrapper is a Sandbox that prefixes the player command with a fixed
// wrapper invocation, e.g. "bwrap --unshare-net ...".
type Wrapper struct {
	Path string
	Args []string
}

func (wrapper Wrapper) Wrap(name string, args []string) (string, []string) {
	wrapped := append(append([]string{}, wrapper.Args...), name)
	return wrapper.Path, append(wrapped, args...)
}
