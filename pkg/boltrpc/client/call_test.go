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

package client

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofastack/sofa-bolt-go/pkg/boltrpc"
	"github.com/sofastack/sofa-bolt-go/pkg/boltrpc/examplepb"
)

// fixedRandomSource is a deterministic RandomSource test double.
type fixedRandomSource struct{ u32 uint32 }

func (r fixedRandomSource) Uint32() uint32                { return r.u32 }
func (r fixedRandomSource) PrintableString(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'x'
	}
	return string(out)
}

// requestFrameComplete reports whether in holds one whole V1 request frame.
// ParseMessage frames responses, whose fixed header carries class_len,
// header_len and content_len at other offsets, so the request header's own
// offsets are read here.
func requestFrameComplete(in *boltrpc.Buffer) bool {
	if in.Len() < boltrpc.RequestHeaderSizeV1 {
		return false
	}
	classLen, _ := in.PeekUint16(14)
	headerLen, _ := in.PeekUint16(16)
	contentLen, _ := in.PeekUint32(18)
	return in.Len() >= boltrpc.RequestHeaderSizeV1+int(classLen)+int(headerLen)+int(contentLen)
}

// serveOneEcho reads exactly one request frame off conn, then writes back
// a hand-built success response frame whose response text is the fixed
// string "echoed".
func serveOneEcho(t *testing.T, conn net.Conn) {
	t.Helper()

	in := boltrpc.NewBuffer(nil)
	buf := make([]byte, 4096)
	for !requestFrameComplete(in) {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		in.Append(buf[:n])
	}

	respMsg, err := examplepb.NewEchoResponse("echoed")
	require.NoError(t, err)
	content, err := boltrpc.MarshalRequestBody(respMsg)
	require.NoError(t, err)

	className := []byte("com.alipay.sofa.rpc.core.response.SofaResponse")

	header := make([]byte, 0, boltrpc.ResponseHeaderSizeV1)
	appendU16 := func(b []byte, v uint16) []byte { return append(b, byte(v>>8), byte(v)) }
	appendU32 := func(b []byte, v uint32) []byte {
		return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	header = append(header, uint8(boltrpc.V1))
	header = append(header, uint8(boltrpc.HeaderTypeResponse))
	header = appendU16(header, uint16(boltrpc.CmdResponse))
	header = append(header, 0)
	header = appendU32(header, 1)
	header = append(header, uint8(boltrpc.CodecProtobuf))
	header = appendU16(header, uint16(boltrpc.StatusSuccess))
	header = appendU16(header, uint16(len(className)))
	header = appendU16(header, 0)
	header = appendU32(header, uint32(len(content)))

	frame := append([]byte{}, header...)
	frame = append(frame, className...)
	frame = append(frame, content...)

	_, err = conn.Write(frame)
	require.NoError(t, err)
}

// serveOneStatusResponse reads exactly one request frame off conn, then
// writes back a minimal response frame carrying status and no class name,
// header map, or content — enough to drive ProcessResponse's non-success
// path.
func serveOneStatusResponse(t *testing.T, conn net.Conn, status boltrpc.ResponseStatus) {
	t.Helper()

	in := boltrpc.NewBuffer(nil)
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		in.Append(buf[:n])
		if requestFrameComplete(in) {
			break
		}
	}

	appendU16 := func(b []byte, v uint16) []byte { return append(b, byte(v>>8), byte(v)) }
	appendU32 := func(b []byte, v uint32) []byte {
		return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	header := make([]byte, 0, boltrpc.ResponseHeaderSizeV1)
	header = append(header, uint8(boltrpc.V1))
	header = append(header, uint8(boltrpc.HeaderTypeResponse))
	header = appendU16(header, uint16(boltrpc.CmdResponse))
	header = append(header, 0)
	header = appendU32(header, 1)
	header = append(header, uint8(boltrpc.CodecProtobuf))
	header = appendU16(header, uint16(status))
	header = appendU16(header, 0)
	header = appendU16(header, 0)
	header = appendU32(header, 0)

	_, err := conn.Write(header)
	require.NoError(t, err)
}

// TestInvokeReturnsErrorInsteadOfHangingOnFailedResponse guards against a
// regression where ProcessResponse returned on a non-success status
// without ever calling Controller.Complete, leaving Invoke's call.Wait()
// blocked forever instead of surfacing the error SetFailed had already
// recorded.
func TestInvokeReturnsErrorInsteadOfHangingOnFailedResponse(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go serveOneStatusResponse(t, serverConn, boltrpc.StatusTimeout)

	ctx := boltrpc.NewContext()
	req, err := examplepb.NewEchoRequest("xyz:0", "A")
	require.NoError(t, err)
	respPlaceholder, err := examplepb.NewEchoResponse("")
	require.NoError(t, err)

	call := NewCall(ctx, respPlaceholder, 3000, "")
	method := NewMethod("com.example.Echo", "echoObj")

	invokeErr := make(chan error, 1)
	go func() {
		invokeErr <- Invoke(clientConn, call, method, 0x1234, fixedRandomSource{u32: 7}, req)
	}()

	select {
	case err := <-invokeErr:
		require.Error(t, err)
		assert.Equal(t, Failed, call.State())
		assert.Equal(t, boltrpc.ErrorCode(boltrpc.StatusTimeout), call.ErrorCode())
		assert.Equal(t, boltrpc.StatusTimeout, ctx.ResponseStatusCode())
	case <-time.After(2 * time.Second):
		t.Fatal("Invoke did not return: ProcessResponse likely failed to complete the call")
	}
}

func TestInvokeRoundTripOverPipe(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		serveOneEcho(t, serverConn)
	}()

	ctx := boltrpc.NewContext()
	req, err := examplepb.NewEchoRequest("xyz:0", "A")
	require.NoError(t, err)
	respPlaceholder, err := examplepb.NewEchoResponse("")
	require.NoError(t, err)

	call := NewCall(ctx, respPlaceholder, 3000, "")
	method := NewMethod("com.example.Echo", "echoObj")

	err = Invoke(clientConn, call, method, 0x1234, fixedRandomSource{u32: 7}, req)
	require.NoError(t, err)
	<-done

	assert.Equal(t, Parsed, call.State())
	assert.Equal(t, "echoed", examplepb.EchoResponseText(respPlaceholder))
	assert.Equal(t, boltrpc.StatusSuccess, ctx.ResponseStatusCode())
}

func TestMethodCustomServiceID(t *testing.T) {
	m := NewMethod("com.example.Echo", "echoObj")
	_, ok := m.CustomServiceID()
	assert.False(t, ok)

	m2 := NewMethodWithCustomServiceID("com.example.Echo", "echoObj", "com.foo.Svc")
	id, ok := m2.CustomServiceID()
	assert.True(t, ok)
	assert.Equal(t, "com.foo.Svc", id)
}
