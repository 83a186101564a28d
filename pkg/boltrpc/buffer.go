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
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrShortBuffer is returned by Cutn/PopBack when fewer bytes are
// available than requested.
var ErrShortBuffer = errors.New("boltrpc: not enough bytes in buffer")

// Buffer is the I/O buffer collaborator the codec is built against
// (spec.md §6): a byte-oriented, forward-only region supporting
// non-destructive peeks (CopyTo), destructive prefix removal (Cutn), tail
// growth (Append), tail shrink (PopBack), and a forward block iterator.
// This is intentionally a single-slice implementation, not a segmented
// chunk list — the segmented-buffer implementation itself is one of the
// framework collaborators spec.md §1 explicitly puts out of scope; Buffer
// exists to give the codec something concrete to compile and be tested
// against, and ForEachBlock's one-block iteration already satisfies every
// caller in this package (crc32.go's updateBuffer).
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer wraps an existing byte slice. The slice is taken by
// reference, not copied.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Len returns the number of unread/unconsumed bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

// Bytes returns the unread bytes as a slice sharing the buffer's backing
// array. Callers must not retain it past the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

// Append copies p onto the tail of the buffer.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// CopyTo peeks up to len(dst) bytes starting at offset (relative to the
// current read position) into dst, without consuming them. It returns the
// number of bytes copied, which is less than len(dst) if the buffer holds
// fewer bytes than requested.
func (b *Buffer) CopyTo(dst []byte, offset int) int {
	avail := b.Len() - offset
	if avail <= 0 {
		return 0
	}
	n := len(dst)
	if n > avail {
		n = avail
	}
	copy(dst, b.data[b.off+offset:b.off+offset+n])
	return n
}

// PeekByte returns the byte at offset without consuming it.
func (b *Buffer) PeekByte(offset int) (byte, bool) {
	if b.Len() <= offset {
		return 0, false
	}
	return b.data[b.off+offset], true
}

// PeekUint16 reads a big-endian uint16 at offset without consuming it.
func (b *Buffer) PeekUint16(offset int) (uint16, bool) {
	var tmp [2]byte
	if b.CopyTo(tmp[:], offset) != 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(tmp[:]), true
}

// PeekUint32 reads a big-endian uint32 at offset without consuming it.
func (b *Buffer) PeekUint32(offset int) (uint32, bool) {
	var tmp [4]byte
	if b.CopyTo(tmp[:], offset) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(tmp[:]), true
}

// Cutn destructively removes and returns the first n bytes. It fails with
// ErrShortBuffer, leaving the buffer untouched, if fewer than n bytes are
// available — this is what makes the framer non-destructive on short
// reads (spec.md §4.5 "Ordering guarantee").
func (b *Buffer) Cutn(n int) ([]byte, error) {
	if b.Len() < n {
		return nil, errors.Wrapf(ErrShortBuffer, "want %d have %d", n, b.Len())
	}
	out := make([]byte, n)
	copy(out, b.data[b.off:b.off+n])
	b.off += n
	return out, nil
}

// PopBack destructively removes n bytes from the tail, used to strip a
// trailing CRC32 word before verifying it.
func (b *Buffer) PopBack(n int) error {
	if b.Len() < n {
		return errors.Wrapf(ErrShortBuffer, "want %d have %d", n, b.Len())
	}
	b.data = b.data[:len(b.data)-n]
	return nil
}

// ForEachBlock iterates the buffer's backing blocks forward without
// copying, calling fn with each block until it returns false or the
// blocks are exhausted. This implementation holds a single block; a
// segmented implementation (the real production I/O buffer, out of scope
// per spec.md §1) would call fn once per underlying chunk instead.
func (b *Buffer) ForEachBlock(fn func(block []byte) bool) {
	if b.Len() == 0 {
		return
	}
	fn(b.Bytes())
}
