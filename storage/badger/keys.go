// Copyright 2025 Poiesic Systems
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

package badger

import (
	"encoding/binary"

	"github.com/poiesic/phrasetrack/core"
)

const (
	vectorPrefix = "vec:"
)

// makeVectorModelPrefix generates the key prefix shared by all vectors of a model.
// Format: prefix:modelID
func makeVectorModelPrefix(model string) []byte {
	buf := make([]byte, len(vectorPrefix)+8)
	offset := copy(buf, vectorPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(model)))
	return buf
}

// makeVectorKey generates a composite key for the vector of a text.
// Format: prefix:modelID:textID
func makeVectorKey(model, text string) []byte {
	prefix := makeVectorModelPrefix(model)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(text)))
	return buf
}
