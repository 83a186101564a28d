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
	"google.golang.org/protobuf/proto"
)

const traceIDFallbackLength = 20

// maxTimeout is the largest millisecond value the wire's 32-bit timeout
// field can carry unclamped.
const maxTimeout = int64(1) << 32

// SerializeRequest validates ctx and marshals reqMsg with protobuf,
// producing the content bytes PackRequest later appends to the frame. It
// is a separate entry point from PackRequest because a caller may want to
// serialize once and pack onto several output buffers, or fail fast
// before touching the wire at all.
func SerializeRequest(ctx *Context, reqMsg proto.Message) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return MarshalRequestBody(reqMsg)
}

// PackRequest builds a complete SOFA Bolt request frame and appends it to
// out. correlationID is the host framework's 64-bit call identifier,
// recorded on sock so the response processor can recover the waiting
// call; content is the already-serialized request body (see
// SerializeRequest). Any failure is reported through ctrl.SetFailed and
// PackRequest returns without writing anything to out.
func PackRequest(out *Buffer, sock Socket, ctrl Controller, method MethodDescriptor, ctx *Context, correlationID uint64, rnd RandomSource, content []byte) {
	sock.SetCorrelationID(correlationID)

	if err := checkContext(ctx); err != nil {
		ctrl.SetFailed(EREQUEST, "%v", err)
		return
	}

	version := ctx.ProtocolVersion
	if version != V1 {
		version = V2
	}

	header := NewRequestHeader(version)
	header.Type = uint8(HeaderTypeRequest)
	header.CmdCode = uint16(CmdRequest)
	header.RequestID = rnd.Uint32()
	header.Codec = uint8(CodecProtobuf)
	if ctx.CRCEnabled {
		header.SetEnableCRCCheckIfApplicable()
	}
	header.Timeout = clampTimeout(ctrl.TimeoutMillis())

	className := []byte(DefaultRequestClassName)
	header.ClassLen = uint16(len(className))

	headerRegion := buildRequestHeaderRegion(ctx, method, ctrl, rnd)
	header.HeaderLen = uint16(len(headerRegion))

	header.ContentLen = uint32(len(content))

	packedHeader := header.Pack()

	payload := make([]byte, 0, len(className)+len(headerRegion)+len(content)+4)
	payload = append(payload, className...)
	payload = append(payload, headerRegion...)
	payload = append(payload, content...)

	if header.IsCRCCheckEnabledIfApplicable() {
		crc := CRC32(packedHeader, NewBuffer(payload))
		payload = appendUint32(payload, crc)
	}

	out.Append(packedHeader)
	out.Append(payload)

	observeFrameSent(version, len(packedHeader)+len(payload))
}

// clampTimeout implements spec.md §4.6 step 4's clamping rule: non-positive
// or overflowing values are sent as the sentinel 0xFFFFFFFF.
func clampTimeout(timeoutMillis int64) uint32 {
	if timeoutMillis <= 0 || timeoutMillis >= maxTimeout {
		return 0xFFFFFFFF
	}
	return uint32(timeoutMillis)
}

// buildRequestHeaderRegion emits the four length-prefixed key-value pairs
// in the exact order the wire format requires (spec.md §4.6 step 6, §8's
// "Header KV ordering" invariant).
func buildRequestHeaderRegion(ctx *Context, method MethodDescriptor, ctrl Controller, rnd RandomSource) []byte {
	serviceID := buildServiceIdentifier(ctx, method)

	traceID := ctrl.RequestID()
	if traceID == "" {
		traceID = rnd.PrintableString(traceIDFallbackLength)
	}

	var region []byte
	region = appendHeaderKV(region, headerKeyService, serviceID)
	region = appendHeaderKV(region, headerKeyTargetService, serviceID)
	region = appendHeaderKV(region, headerKeyMethodName, method.MethodName())
	region = appendHeaderKV(region, headerKeyTraceID, traceID)
	return region
}

// buildServiceIdentifier implements spec.md §4.6 step 7 and the "subtle
// case" of §9: a non-empty context service name suppresses the method's
// custom_service_id, even though custom_service_id would otherwise take
// priority. This is specified behavior, not a bug.
func buildServiceIdentifier(ctx *Context, method MethodDescriptor) string {
	if ctx.ServiceName == "" {
		if customID, ok := method.CustomServiceID(); ok && customID != "" {
			return customID
		}
	}

	base := ctx.ServiceName
	if base == "" {
		base = method.ServiceFullName()
	}
	id := base + ":" + ctx.effectiveServiceVersion()
	if ctx.ServiceUniqueID != "" {
		id += ":" + ctx.ServiceUniqueID
	}
	return id
}

func appendHeaderKV(dst []byte, key, value string) []byte {
	dst = appendUint32(dst, uint32(len(key)))
	dst = append(dst, key...)
	dst = appendUint32(dst, uint32(len(value)))
	dst = append(dst, value...)
	return dst
}
