/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package boltrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomSourcePrintableStringLengthAndAlphabet(t *testing.T) {
	rnd := NewRandomSource()
	s := rnd.PrintableString(20)
	assert.Len(t, s, 20)
	for _, r := range s {
		assert.Contains(t, printableAlphabet, string(r))
	}
}

func TestRandomSourceUint32VariesAcrossCalls(t *testing.T) {
	rnd := NewRandomSource()
	seen := make(map[uint32]bool)
	for i := 0; i < 8; i++ {
		seen[rnd.Uint32()] = true
	}
	assert.Greater(t, len(seen), 1, "8 draws from a CSPRNG should not collide to a single value")
}
