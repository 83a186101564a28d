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

// Package boltrpc implements the client-side codec for the SOFA Bolt RPC
// wire protocol, versions v1 and v2: framing, header packing/unpacking,
// CRC32 verification and the per-call context that carries protocol
// options between user code and the codec.
package boltrpc

// ProtocolVersion identifies which SOFA Bolt wire format a frame uses.
//
// Request command protocol for v1
//
//	0     1     2           4           6           8          10           12          14         16
//	+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+
//	|proto| type| cmdcode   |ver2 |   requestId           |codec|        timeout        |  classLen |
//	+-----------+-----------+-----------+-----------+-----------+-----------+-----------+-----------+
//	|headerLen  | contentLen            |                             ... ...                       |
//	+-----------+-----------+-----------+                                                           +
//	|               className + header  + content  bytes                                            |
//	+-----------------------------------------------------------------------------------------------+
//
// Request command protocol for v2
//
//	0     1     2           4           6           8          10     11     12          14         16
//	+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+-----+------+-----+-----+-----+-----+
//	|proto| ver1|type | cmdcode   |ver2 |   requestId           |codec|switch|   timeout             |
//	+-----------+-----------+-----------+-----------+-----------+------------+-----------+-----------+
//	|classLen   |headerLen  |contentLen             |           ...                                  |
//	+-----------+-----------+-----------+-----------+                                                +
//	|               className + header  + content  bytes    ...     | CRC32(optional)                |
//	+------------------------------------------------------------------------------------------------+
type ProtocolVersion uint8

const (
	V1 ProtocolVersion = 1
	V2 ProtocolVersion = 2
)

// HeaderType is the `type` byte of a frame: request, response or oneway.
type HeaderType uint8

const (
	HeaderTypeResponse HeaderType = 0
	HeaderTypeRequest  HeaderType = 1
	HeaderTypeOneway   HeaderType = 2
)

// CommandCode is the `cmd_code` field.
type CommandCode uint16

const (
	CmdHeartbeat CommandCode = 0
	CmdRequest   CommandCode = 1
	CmdResponse  CommandCode = 2
)

// CodecType is the `codec` field. Only Protobuf is implemented; Hessian2 is
// reserved in the enumeration to match the wire values the Java server
// understands but is never produced or accepted here.
type CodecType uint8

const (
	CodecHessian2 CodecType = 1
	CodecProtobuf CodecType = 11
)

// Options are the V2-only `options` bits.
type Options uint8

const OptCRCCheck Options = 0x01

// ResponseStatus is the 16-bit status code carried by response frames. The
// jump from 0x09 to 0x10 is an upstream sofa-bolt quirk, preserved here
// bit-exactly rather than "fixed".
type ResponseStatus uint16

const (
	StatusSuccess                  ResponseStatus = 0x00
	StatusError                    ResponseStatus = 0x01
	StatusServerException          ResponseStatus = 0x02
	StatusUnknown                  ResponseStatus = 0x03
	StatusServerThreadpoolBusy     ResponseStatus = 0x04
	StatusErrorComm                ResponseStatus = 0x05
	StatusNoProcessor              ResponseStatus = 0x06
	StatusTimeout                  ResponseStatus = 0x07
	StatusClientSendError          ResponseStatus = 0x08
	StatusCodecException           ResponseStatus = 0x09
	StatusConnectionClosed         ResponseStatus = 0x10
	StatusServerSerialException    ResponseStatus = 0x11
	StatusServerDeserialException  ResponseStatus = 0x12
)

var statusMessage = map[ResponseStatus]string{
	StatusSuccess:                 "success",
	StatusError:                   "error",
	StatusServerException:         "server exception",
	StatusUnknown:                 "unknown",
	StatusServerThreadpoolBusy:    "server threadpool busy",
	StatusErrorComm:               "communication error",
	StatusNoProcessor:             "no processor find",
	StatusTimeout:                 "timeout",
	StatusClientSendError:         "client send error",
	StatusCodecException:          "exception in encode or decode",
	StatusConnectionClosed:        "connection closed",
	StatusServerSerialException:   "server serialize exception",
	StatusServerDeserialException: "server deserialize exception",
}

// Message returns the human-readable text for a response status, or
// "unknown status" for a value not in the fixed enumeration.
func (s ResponseStatus) Message() string {
	if msg, ok := statusMessage[s]; ok {
		return msg
	}
	return "unknown status"
}

// Packed header sizes, in bytes. The framer relies on these exact values to
// know how many bytes to peek before it can compute payload_len.
const (
	RequestHeaderSizeV1  = 22
	RequestHeaderSizeV2  = 24
	ResponseHeaderSizeV1 = 20
	ResponseHeaderSizeV2 = 22
)

// DefaultRequestClassName is the fixed Java class name every request frame
// carries so the SOFA Bolt Java server can pick the right deserializer.
const DefaultRequestClassName = "com.alipay.sofa.rpc.core.request.SofaRequest"

// DefaultServiceVersion is used when a Context leaves ServiceVersion unset.
const DefaultServiceVersion = "1.0"

// Header map key names, emitted in this exact order by the packer.
const (
	headerKeyService       = "service"
	headerKeyTargetService = "sofa_head_target_service"
	headerKeyMethodName    = "sofa_head_method_name"
	headerKeyTraceID       = "rpc_trace_context.sofaTraceId"
)
