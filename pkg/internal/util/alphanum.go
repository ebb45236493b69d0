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

package util

import (
	"regexp"
	"strconv"
)

var chunkRegexp = regexp.MustCompile(`(\d+|\D+)`)

// AlphanumCompare reports whether a precedes b in natural order, where
// runs of digits compare as numbers: "player-2" sorts before
// "player-10".
func AlphanumCompare(a, b string) bool {
	achunks := chunkRegexp.FindAllString(a, -1)
	bchunks := chunkRegexp.FindAllString(b, -1)

	for i, achunk := range achunks {
		if i >= len(bchunks) {
			// b is a prefix of a.
			return false
		}
		bchunk := bchunks[i]

		anum, aerr := strconv.Atoi(achunk)
		bnum, berr := strconv.Atoi(bchunk)

		switch {
		case aerr == nil && berr == nil && anum != bnum:
			return anum < bnum
		case (aerr == nil) != (berr == nil):
			// Digits sort before letters.
			return aerr == nil
		case achunk != bchunk:
			return achunk < bchunk
		}
	}

	return len(achunks) < len(bchunks)
}
