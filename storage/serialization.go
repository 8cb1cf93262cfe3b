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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MarshalVectorEntry serializes a VectorEntry to bytes.
// Layout: text, element count, raw little-endian float32 elements.
func MarshalVectorEntry(entry *VectorEntry) []byte {
	size := ord.String.Size(entry.Text) + varint.Int.Size(len(entry.Vector))
	for _, v := range entry.Vector {
		size += raw.Float32.Size(v)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(entry.Text, buf)
	n += varint.Int.Marshal(len(entry.Vector), buf[n:])
	for _, v := range entry.Vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf[:n]
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*VectorEntry, error) {
	text, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	count, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: length: %w", ErrSerializationFailed, err)
	}
	n += m
	if count < 0 || count*4 > len(data)-n {
		return nil, fmt.Errorf("%w: want %d elements, have %d bytes", ErrTruncatedData, count, len(data)-n)
	}

	vector := make([]float32, count)
	for i := range vector {
		vector[i], m, err = raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
	}
	return &VectorEntry{Text: text, Vector: vector}, nil
}
