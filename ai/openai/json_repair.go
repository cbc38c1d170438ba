// Copyright 2025 Oracle Health Analytics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// repairJSON fixes the malformation extraction models produce most often:
// an object key missing its opening quote, e.g. `{factor": "sepsis"}`.
// Anything it cannot recognize is passed through unchanged.
func repairJSON(s string) string {
	runes := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	for i := 0; i < len(runes); {
		ch := runes[i]
		out.WriteRune(ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		// Copy whitespace following the separator
		for i < len(runes) && isSpace(runes[i]) {
			out.WriteRune(runes[i])
			i++
		}

		// A bare word here is a candidate for a key with a lost quote
		if i >= len(runes) || !isLetter(runes[i]) {
			continue
		}
		end := i
		for end < len(runes) && (isLetter(runes[end]) || runes[end] == '_' || runes[end] == ' ') {
			end++
		}

		// Only rewrite when the word runs straight into `":`, which is
		// the signature of a key whose opening quote was dropped
		if end+1 < len(runes) && runes[end] == '"' && runes[end+1] == ':' {
			out.WriteRune('"')
			out.WriteString(strings.TrimRight(string(runes[i:end]), " "))
		} else {
			out.WriteString(string(runes[i:end]))
		}
		i = end
	}

	return out.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
