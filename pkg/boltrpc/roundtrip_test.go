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

	"github.com/sofastack/sofa-bolt-go/pkg/boltrpc/examplepb"
)

// TestRoundTripFrameThenProcessWithCRC exercises the receive-path pipeline
// end to end — ParseMessage splitting a streaming buffer into meta and
// payload, then ProcessResponse decoding it — against a V2 frame carrying
// a class name, a header map, a CRC trailer, and a Protobuf body, mirroring
// spec.md §8's round-trip invariant for the response side of a call.
func TestRoundTripFrameThenProcessWithCRC(t *testing.T) {
	className := []byte("com.alipay.sofa.rpc.core.response.SofaResponse")
	headerRegion := appendHeaderKV(nil, "foo", "bar")

	respMsg, err := examplepb.NewEchoResponse("round-trip")
	require.NoError(t, err)
	content, err := MarshalRequestBody(respMsg)
	require.NoError(t, err)

	header := packTestResponseHeader(V2, StatusSuccess, uint16(len(className)), uint16(len(headerRegion)), uint32(len(content)), true)

	payload := append([]byte{}, className...)
	payload = append(payload, headerRegion...)
	payload = append(payload, content...)
	crc := CRC32(header, NewBuffer(payload))
	payload = appendUint32(payload, crc)

	frame := append([]byte{}, header...)
	frame = append(frame, payload...)

	buf := NewBuffer(frame)
	msg, err := ParseMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len(), "the whole frame should have been consumed")

	placeholder, err := examplepb.NewEchoResponse("")
	require.NoError(t, err)
	ctrl := &fakeController{response: placeholder}

	ProcessResponse(msg, ctrl)

	require.False(t, ctrl.failed, ctrl.message)
	require.True(t, ctrl.completed)
	require.NotNil(t, ctrl.ctx)
	assert.Equal(t, string(className), ctrl.ctx.ResponseClassName())
	hdrs, ok := ctrl.ctx.ResponseHeaderMap()
	require.True(t, ok)
	assert.Equal(t, "bar", hdrs["foo"])
	assert.Equal(t, "round-trip", examplepb.EchoResponseText(placeholder))
}

// TestRoundTripPackedRequestStructureMatchesFramerExpectations packs a
// request, then feeds the packed bytes back through the same length
// bookkeeping the framer uses for responses (the fixed regions are laid
// out identically past the header), confirming class_len/header_len/
// content_len agree with the actual byte layout the packer produced.
func TestRoundTripPackedRequestStructureMatchesFramerExpectations(t *testing.T) {
	ctx := NewContext()
	ctx.ProtocolVersion = V2
	ctx.CRCEnabled = true
	method := fakeMethod{service: "com.example.Echo", name: "echoObj"}
	ctrl := &fakeController{timeoutMillis: 1000}
	sock := &fakeSocket{}

	req, err := examplepb.NewEchoRequest("xyz:0", "A")
	require.NoError(t, err)
	content, err := SerializeRequest(ctx, req)
	require.NoError(t, err)

	out := NewBuffer(nil)
	PackRequest(out, sock, ctrl, method, ctx, 1, NewRandomSource(), content)
	require.False(t, ctrl.failed)

	packed := out.Bytes()

	expectedPayloadLen := len(DefaultRequestClassName) + 4 + len("service") + 4 + len("com.example.Echo:1.0") +
		4 + len("sofa_head_target_service") + 4 + len("com.example.Echo:1.0") +
		4 + len("sofa_head_method_name") + 4 + len("echoObj") +
		4 + len("rpc_trace_context.sofaTraceId") + 4 + 20 +
		len(content) + 4 // trailing CRC

	assert.Equal(t, RequestHeaderSizeV2+expectedPayloadLen, len(packed))
}
