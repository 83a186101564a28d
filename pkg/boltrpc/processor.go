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

	"github.com/sofastack/sofa-bolt-go/pkg/boltlog"
)

// ProcessResponse decodes a framed message produced by ParseMessage and
// completes ctrl. Every failure path calls ctrl.SetFailed and returns
// without parsing further than the point of failure — the codec never
// returns a Go error across this boundary. ctrl.Complete() always runs,
// even on failure, so a waiter blocked on the call is woken with whatever
// error SetFailed already recorded rather than left hanging forever.
func ProcessResponse(msg *Message, ctrl Controller) {
	protoByte, _ := msg.Meta.PeekByte(0)
	version := V2
	if ProtocolVersion(protoByte) == V1 {
		version = V1
	}

	header := ReadResponseHeader(version, msg.Meta.Bytes())
	observeFrameReceived(version, msg.Meta.Len()+msg.Payload.Len())
	defer ctrl.Complete()

	status := ResponseStatus(header.RespStatus)
	observeResponseStatus(status)

	ctx := ctrl.RpcContext()
	if ctx == nil {
		ctx = NewContext()
		ctrl.SetRpcContext(ctx)
	}
	ctx.ProtocolVersion = version
	ctx.setResponseStatusCode(status)

	if !header.CheckVer1IfApplicable() {
		boltlog.Debugf("sofa bolt response validation failed: version mismatch proto=%d ver1=%d", header.Proto, header.Ver1)
		ctrl.SetFailed(ERESPONSE, "sofa bolt response version mismatch: proto=%d ver1=%d", header.Proto, header.Ver1)
		return
	}
	if !header.CheckHeaderType(HeaderTypeResponse) {
		boltlog.Debugf("sofa bolt response validation failed: header type got %d want %d", header.Type, HeaderTypeResponse)
		ctrl.SetFailed(ERESPONSE, "sofa bolt response type mismatch: got %d want %d", header.Type, HeaderTypeResponse)
		return
	}
	if !header.CheckCmdCode(CmdResponse) {
		boltlog.Debugf("sofa bolt response validation failed: cmd_code got %d want %d", header.CmdCode, CmdResponse)
		ctrl.SetFailed(ERESPONSE, "sofa bolt response cmd_code mismatch: got %d want %d", header.CmdCode, CmdResponse)
		return
	}
	if status != StatusSuccess {
		// The status's own value is the SetFailed code, not ERESPONSE — see
		// errors.go — so a caller can tell "server said no" apart from
		// "codec couldn't decode it".
		boltlog.Debugf("sofa bolt response validation failed: status %#x (%s)", uint16(status), status.Message())
		ctrl.SetFailed(ErrorCode(status), "sofa bolt response status %#x: %s", uint16(status), status.Message())
		return
	}
	if !header.CheckCodec(CodecProtobuf) {
		boltlog.Debugf("sofa bolt response validation failed: codec got %d want %d", header.Codec, CodecProtobuf)
		ctrl.SetFailed(ERESPONSE, "sofa bolt response codec mismatch: got %d want %d", header.Codec, CodecProtobuf)
		return
	}

	payload := msg.Payload

	if header.HasCrcCheckOption() {
		if err := verifyResponseCRC(msg.Meta, payload); err != nil {
			observeCRCFailure(version)
			boltlog.Debugf("sofa bolt response validation failed: %v", err)
			ctrl.SetFailed(ERESPONSE, "%v", err)
			return
		}
	}

	if header.ClassLen > 0 {
		classBytes, err := payload.Cutn(int(header.ClassLen))
		if err != nil {
			boltlog.Debugf("sofa bolt response validation failed: truncated class name: %v", err)
			ctrl.SetFailed(ERESPONSE, "truncated response class name: %v", err)
			return
		}
		ctx.setResponseClassName(string(classBytes))
	}

	remaining := int(header.HeaderLen)
	for remaining > 0 {
		key, err := cutLengthPrefixedString(payload)
		if err != nil {
			boltlog.Debugf("sofa bolt response validation failed: truncated header map: %v", err)
			ctrl.SetFailed(ERESPONSE, "truncated response header map: %v", err)
			return
		}
		value, err := cutLengthPrefixedString(payload)
		if err != nil {
			boltlog.Debugf("sofa bolt response validation failed: truncated header map: %v", err)
			ctrl.SetFailed(ERESPONSE, "truncated response header map: %v", err)
			return
		}
		ctx.addResponseHeader(key, value)
		remaining -= 8 + len(key) + len(value)
	}

	if resp := ctrl.Response(); resp != nil && header.ContentLen > 0 {
		content, err := payload.Cutn(int(header.ContentLen))
		if err != nil {
			boltlog.Debugf("sofa bolt response validation failed: truncated content: %v", err)
			ctrl.SetFailed(ERESPONSE, "truncated response content: %v", err)
			return
		}
		if err := ParseResponseBody(content, resp); err != nil {
			boltlog.Debugf("sofa bolt response validation failed: %v", err)
			ctrl.SetFailed(ERESPONSE, "%v", err)
			return
		}
	}
}

// verifyResponseCRC pops the trailing 4-byte CRC32 off payload and
// compares it against a fresh computation over meta followed by the
// shortened payload, per spec.md §4.6 step 4.
func verifyResponseCRC(meta, payload *Buffer) error {
	if payload.Len() < 4 {
		return errors.New("sofa bolt response too short for crc trailer")
	}
	var tail [4]byte
	if payload.CopyTo(tail[:], payload.Len()-4) != 4 {
		return errors.New("sofa bolt response too short for crc trailer")
	}
	received := binary.BigEndian.Uint32(tail[:])
	if err := payload.PopBack(4); err != nil {
		return err
	}
	computed := CRC32(meta.Bytes(), payload)
	if computed != received {
		return errors.Errorf("sofa bolt crc mismatch: computed=%08x received=%08x", computed, received)
	}
	return nil
}

// cutLengthPrefixedString reads a 4-byte big-endian length followed by
// that many bytes off the front of buf, the wire shape of both keys and
// values in the header region (spec.md §3, "Header region format").
func cutLengthPrefixedString(buf *Buffer) (string, error) {
	lenBytes, err := buf.Cutn(4)
	if err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(lenBytes)
	data, err := buf.Cutn(int(n))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
