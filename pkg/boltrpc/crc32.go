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
	"hash"
	"hash/crc32"
)

// javaCRC32 computes a checksum bit-compatible with Java's
// java.util.zip.CRC32: reflected IEEE polynomial 0xEDB88320, initial
// register 0xFFFFFFFF, final XOR 0xFFFFFFFF. Go's hash/crc32 IEEE table and
// digest already implement exactly this algorithm, so this type is a thin
// wrapper that gives the two update entry points spec.md asks for (a
// contiguous range, and a segmented buffer iterated block-by-block) rather
// than a hand-rolled table.
type javaCRC32 struct {
	hash.Hash32
}

func newJavaCRC32() *javaCRC32 {
	return &javaCRC32{Hash32: crc32.NewIEEE()}
}

// update digests a contiguous byte range.
func (c *javaCRC32) update(p []byte) {
	// crc32.digest.Write never returns an error.
	_, _ = c.Hash32.Write(p)
}

// updateBuffer digests a Buffer by iterating its blocks forward, without
// copying them into one contiguous slice first.
func (c *javaCRC32) updateBuffer(buf *Buffer) {
	buf.ForEachBlock(func(block []byte) bool {
		c.update(block)
		return true
	})
}

// checksum returns the 32-bit checksum after the final XOR, which
// crc32.Hash32.Sum32 already applies.
func (c *javaCRC32) checksum() uint32 {
	return c.Hash32.Sum32()
}

// CRC32 computes the Java-compatible CRC32 over a header followed by a
// payload buffer, as used on both the send and receive paths (spec.md
// §4.3): send computes it over packed-header || class-name+headers+content;
// receive computes it over meta || payload-with-trailing-checksum-removed.
func CRC32(header []byte, payload *Buffer) uint32 {
	c := newJavaCRC32()
	c.update(header)
	c.updateBuffer(payload)
	return c.checksum()
}
