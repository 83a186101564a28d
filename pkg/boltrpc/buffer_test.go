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
	"github.com/stretchr/testify/require"
)

func TestBufferCutnNonDestructiveOnShortRead(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3})
	_, err := b.Cutn(10)
	require.Error(t, err)
	assert.Equal(t, 3, b.Len(), "a failed Cutn must not consume any bytes")
}

func TestBufferCutnConsumesPrefix(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3, 4, 5})
	head, err := b.Cutn(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, head)
	assert.Equal(t, []byte{3, 4, 5}, b.Bytes())
}

func TestBufferPeekDoesNotConsume(t *testing.T) {
	b := NewBuffer([]byte{0x00, 0x00, 0x01, 0x02})
	v, ok := b.PeekUint16(2)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0102), v)
	assert.Equal(t, 4, b.Len())
}

func TestBufferPopBack(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3, 4})
	require.NoError(t, b.PopBack(1))
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())

	require.Error(t, b.PopBack(10))
}

func TestBufferForEachBlockSingleBlock(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3})
	var seen [][]byte
	b.ForEachBlock(func(block []byte) bool {
		seen = append(seen, block)
		return true
	})
	require.Len(t, seen, 1)
	assert.Equal(t, []byte{1, 2, 3}, seen[0])
}
