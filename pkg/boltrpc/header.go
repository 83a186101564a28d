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

import "encoding/binary"

// RequestHeader is the fixed-size header of an outbound request frame. It
// is a single tagged-variant struct rather than two parallel V1/V2 types:
// the Version field gates which of Ver1/Options are meaningful, and every
// setter that doesn't apply to the current version is a documented no-op
// (see SetVer1IfApplicable, SetEnableCRCCheckIfApplicable). Field offsets
// on the wire are never assumed to match Go's struct layout; Pack copies
// each field explicitly at its wire position.
type RequestHeader struct {
	Version ProtocolVersion

	Proto      uint8
	Ver1       uint8 // meaningful for V2 only
	Type       uint8
	CmdCode    uint16
	Ver2       uint8
	RequestID  uint32
	Codec      uint8
	Options    uint8 // meaningful for V2 only
	Timeout    uint32
	ClassLen   uint16
	HeaderLen  uint16
	ContentLen uint32
}

// NewRequestHeader zero-initializes a header for the given protocol
// version and sets Proto (and Ver1 for V2) accordingly.
func NewRequestHeader(version ProtocolVersion) *RequestHeader {
	h := &RequestHeader{Version: version, Proto: uint8(version)}
	h.SetVer1IfApplicable(version)
	return h
}

// SetVer1IfApplicable sets the ver1 byte on V2 headers; silently ignored
// on V1, where the byte does not exist on the wire.
func (h *RequestHeader) SetVer1IfApplicable(version ProtocolVersion) {
	if h.Version == V2 {
		h.Ver1 = uint8(version)
	}
}

// SetEnableCRCCheckIfApplicable sets the CRC_CHECK option bit on V2
// headers; silently ignored on V1, which has no options byte.
func (h *RequestHeader) SetEnableCRCCheckIfApplicable() {
	if h.Version == V2 {
		h.Options |= uint8(OptCRCCheck)
	}
}

// IsCRCCheckEnabledIfApplicable reports whether the CRC option bit is set;
// always false on V1.
func (h *RequestHeader) IsCRCCheckEnabledIfApplicable() bool {
	return h.Version == V2 && h.Options&uint8(OptCRCCheck) != 0
}

// packedSize returns the number of header bytes this version puts on the
// wire, matching definitions.go's RequestHeaderSizeV{1,2} constants.
func (h *RequestHeader) packedSize() int {
	if h.Version == V2 {
		return RequestHeaderSizeV2
	}
	return RequestHeaderSizeV1
}

// Pack converts multi-byte fields to network order and serializes the
// header in wire order for the header's version. The byte layout is
// version-specific: V2 additionally writes ver1 and options in their
// designated positions.
func (h *RequestHeader) Pack() []byte {
	out := make([]byte, 0, h.packedSize())
	out = append(out, h.Proto)
	if h.Version == V2 {
		out = append(out, h.Ver1)
	}
	out = append(out, h.Type)
	out = appendUint16(out, h.CmdCode)
	out = append(out, h.Ver2)
	out = appendUint32(out, h.RequestID)
	out = append(out, h.Codec)
	if h.Version == V2 {
		out = append(out, h.Options)
	}
	out = appendUint32(out, h.Timeout)
	out = appendUint16(out, h.ClassLen)
	out = appendUint16(out, h.HeaderLen)
	out = appendUint32(out, h.ContentLen)
	return out
}

// ResponseHeader is the fixed-size header extracted from an inbound
// response frame, unpacked field-by-field from its wire offsets (never by
// reinterpreting raw bytes as a Go struct, since Go's layout rules do not
// promise to match the wire).
type ResponseHeader struct {
	Version ProtocolVersion

	Proto      uint8
	Ver1       uint8 // meaningful for V2 only
	Type       uint8
	CmdCode    uint16
	Ver2       uint8
	RequestID  uint32
	Codec      uint8
	Options    uint8 // meaningful for V2 only
	RespStatus uint16
	ClassLen   uint16
	HeaderLen  uint16
	ContentLen uint32
}

// ReadResponseHeader extracts a response header from exactly
// ResponseHeaderSizeV{1,2} bytes at the front of buf, converting
// multi-byte fields from network to host order exactly once. buf must be
// at least the packed size for version; callers (the framer) are
// responsible for having verified that first.
func ReadResponseHeader(version ProtocolVersion, buf []byte) *ResponseHeader {
	h := &ResponseHeader{Version: version}
	i := 0
	h.Proto = buf[i]
	i++
	if version == V2 {
		h.Ver1 = buf[i]
		i++
	}
	h.Type = buf[i]
	i++
	h.CmdCode = binary.BigEndian.Uint16(buf[i:])
	i += 2
	h.Ver2 = buf[i]
	i++
	h.RequestID = binary.BigEndian.Uint32(buf[i:])
	i += 4
	h.Codec = buf[i]
	i++
	if version == V2 {
		h.Options = buf[i]
		i++
	}
	h.RespStatus = binary.BigEndian.Uint16(buf[i:])
	i += 2
	h.ClassLen = binary.BigEndian.Uint16(buf[i:])
	i += 2
	h.HeaderLen = binary.BigEndian.Uint16(buf[i:])
	i += 2
	h.ContentLen = binary.BigEndian.Uint32(buf[i:])
	return h
}

// CheckVer1IfApplicable is always true for V1; for V2 it requires
// proto == ver1.
func (h *ResponseHeader) CheckVer1IfApplicable() bool {
	if h.Version == V1 {
		return true
	}
	return h.Proto == h.Ver1
}

func (h *ResponseHeader) CheckHeaderType(t HeaderType) bool {
	return HeaderType(h.Type) == t
}

func (h *ResponseHeader) CheckCmdCode(c CommandCode) bool {
	return CommandCode(h.CmdCode) == c
}

func (h *ResponseHeader) CheckCodec(c CodecType) bool {
	return CodecType(h.Codec) == c
}

func (h *ResponseHeader) CheckResponseStatus(s ResponseStatus) bool {
	return ResponseStatus(h.RespStatus) == s
}

// CheckVer2 requires the ver2 field, unused by this implementation, to be 0.
func (h *ResponseHeader) CheckVer2() bool {
	return h.Ver2 == 0
}

// HasCrcCheckOption is always false for V1 and checks the CRC bit for V2.
func (h *ResponseHeader) HasCrcCheckOption() bool {
	return h.Version == V2 && h.Options&uint8(OptCRCCheck) != 0
}

func appendUint16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}
