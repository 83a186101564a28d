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

import "github.com/sofastack/sofa-bolt-go/pkg/boltlog"

// Message is a fully-framed inbound response: the fixed-size header
// region (Meta) and everything after it (Payload — class name, header
// map, content, optional trailing CRC32), ready to hand to ProcessResponse.
type Message struct {
	Meta    *Buffer
	Payload *Buffer
}

// response header field offsets, by version, used by ParseMessage to peek
// class_len/header_len/content_len/options before deciding whether a full
// frame is present. These mirror ExtractSofaHeader's offsetof() calls in
// the original implementation: never assume a struct's memory layout
// matches the wire, always read at an explicit byte offset.
const (
	respV1ClassLenOffset   = 12
	respV1HeaderLenOffset  = 14
	respV1ContentLenOffset = 16

	respV2OptionsOffset    = 11
	respV2ClassLenOffset   = 14
	respV2HeaderLenOffset  = 16
	respV2ContentLenOffset = 18
)

// ParseMessage inspects source, a streaming byte buffer fed by the
// socket-read path, and determines whether it holds a complete SOFA Bolt
// frame. It returns (msg, nil) on success, (nil, ErrNotEnoughData) if the
// caller should retry once more bytes arrive, or (nil, ErrAbsolutelyWrong)
// if the leading byte isn't a recognized protocol version — the caller
// must drop the connection in that case. On a short buffer, source is
// left completely untouched (spec.md §4.5's non-destructive guarantee).
func ParseMessage(source *Buffer) (*Message, error) {
	proto, ok := source.PeekByte(0)
	if !ok {
		return nil, ErrNotEnoughData
	}

	switch ProtocolVersion(proto) {
	case V1:
		return parseVersionedMessage(source, V1)
	case V2:
		return parseVersionedMessage(source, V2)
	default:
		boltlog.Warnf("sofa bolt dropping connection: unrecognized protocol byte %#x", proto)
		return nil, ErrAbsolutelyWrong
	}
}

func parseVersionedMessage(source *Buffer, version ProtocolVersion) (*Message, error) {
	headerSize := ResponseHeaderSizeV1
	classLenOff, headerLenOff, contentLenOff := respV1ClassLenOffset, respV1HeaderLenOffset, respV1ContentLenOffset
	if version == V2 {
		headerSize = ResponseHeaderSizeV2
		classLenOff, headerLenOff, contentLenOff = respV2ClassLenOffset, respV2HeaderLenOffset, respV2ContentLenOffset
	}

	if source.Len() < headerSize {
		return nil, ErrNotEnoughData
	}

	var options byte
	if version == V2 {
		options, _ = source.PeekByte(respV2OptionsOffset)
	}
	classLen, _ := source.PeekUint16(classLenOff)
	headerLen, _ := source.PeekUint16(headerLenOff)
	contentLen, _ := source.PeekUint32(contentLenOff)

	payloadLen := int(classLen) + int(headerLen) + int(contentLen)
	totalLen := headerSize + payloadLen
	if version == V2 && options&byte(OptCRCCheck) != 0 {
		totalLen += 4
	}

	if source.Len() < totalLen {
		return nil, ErrNotEnoughData
	}

	meta, err := source.Cutn(headerSize)
	if err != nil {
		return nil, ErrNotEnoughData
	}
	payload, err := source.Cutn(totalLen - headerSize)
	if err != nil {
		return nil, ErrNotEnoughData
	}
	return &Message{Meta: NewBuffer(meta), Payload: NewBuffer(payload)}, nil
}
