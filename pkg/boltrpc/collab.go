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
	"crypto/rand"
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// Socket is the correlation-id carrier the packer records onto before
// sending and the processor reads to recover the waiting call. The
// protocol has no correlation field of its own; request_id on the wire is
// a distinct 32-bit value the socket knows nothing about.
type Socket interface {
	CorrelationID() uint64
	SetCorrelationID(id uint64)
}

// Controller is the per-call RPC controller collaborator: it owns the
// timeout, the user-visible request id string (used as the trace id
// fallback source), the response placeholder to decode into, the attached
// Context, and the completion signal woken once the processor is done.
//
// SetFailed is the codec's error-reporting channel across this boundary —
// PackRequest and ProcessResponse never return a Go error, they call
// SetFailed and return. SerializeRequest runs before a controller is
// involved and returns its error to the caller instead. A non-success response status
// is reported with the status's own numeric value as code, not with
// ERESPONSE, so a caller can tell "server said no" apart from "codec
// couldn't parse it" (see errors.go).
type Controller interface {
	TimeoutMillis() int64
	RequestID() string
	Response() proto.Message

	SetFailed(code ErrorCode, format string, args ...interface{})
	ErrorCode() ErrorCode

	RpcContext() *Context
	SetRpcContext(ctx *Context)

	// Complete wakes whatever is waiting on this call's correlation id,
	// preserving any error code already recorded by SetFailed.
	Complete()
}

// MethodDescriptor describes the RPC method being invoked: the service's
// fully qualified name, the method's short name, and an optional
// custom_service_id extension value (spec.md §9's "subtle case" — see
// packer.go's buildServiceIdentifier).
type MethodDescriptor interface {
	ServiceFullName() string
	MethodName() string
	CustomServiceID() (string, bool)
}

// MarshalRequestBody serializes a request message with protobuf, the only
// codec this implementation supports (Hessian2 is reserved but never
// produced).
func MarshalRequestBody(msg proto.Message) ([]byte, error) {
	b, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "marshal sofa bolt request body")
	}
	return b, nil
}

// ParseResponseBody parses content bytes with protobuf into msg.
func ParseResponseBody(content []byte, msg proto.Message) error {
	if err := proto.Unmarshal(content, msg); err != nil {
		return errors.Wrap(err, "parse sofa bolt response body")
	}
	return nil
}

// RandomSource is the packer's source of a fresh 32-bit request_id and, in
// the absence of a controller-supplied request id string, a printable
// trace-id fallback (spec.md §4.6 step 6).
type RandomSource interface {
	Uint32() uint32
	PrintableString(n int) string
}

// cryptoRandomSource backs RandomSource with crypto/rand. No third-party
// randomness library in the retrieval pack offers a CSPRNG; crypto/rand is
// the standard, idiomatic choice here rather than a gap left by a missing
// dependency.
type cryptoRandomSource struct{}

// NewRandomSource returns the default RandomSource used by the packer.
func NewRandomSource() RandomSource { return cryptoRandomSource{} }

const printableAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func (cryptoRandomSource) Uint32() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint32(b[:])
}

func (cryptoRandomSource) PrintableString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(printableAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = printableAlphabet[0]
			continue
		}
		out[i] = printableAlphabet[idx.Int64()]
	}
	return string(out)
}
