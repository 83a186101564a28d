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

// Package client wires pkg/boltrpc's codec to an actual connection: it
// supplies a Controller/Socket/MethodDescriptor implementation and a
// synchronous Invoke helper that drives one call through the
// Built → Sent → Awaiting → (Parsed | Failed) state machine spec.md §4.6
// describes in prose but leaves to the host framework to make concrete.
package client

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"github.com/sofastack/sofa-bolt-go/pkg/boltlog"
	"github.com/sofastack/sofa-bolt-go/pkg/boltrpc"
)

// State is the client-side state machine per call, spec.md §4.6.
type State int

const (
	Built State = iota
	Sent
	Awaiting
	Parsed
	Failed
)

func (s State) String() string {
	switch s {
	case Built:
		return "built"
	case Sent:
		return "sent"
	case Awaiting:
		return "awaiting"
	case Parsed:
		return "parsed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Call bundles everything one round trip needs to satisfy
// boltrpc.Controller and boltrpc.Socket, and tracks the call's state.
type Call struct {
	mu sync.Mutex

	state         State
	ctx           *boltrpc.Context
	response      proto.Message
	timeoutMillis int64
	requestID     string
	correlationID uint64

	errorCode  boltrpc.ErrorCode
	failReason string
	done       chan struct{}
}

// NewCall builds a Call in the Built state, ready to pass to Invoke.
// response may be nil for calls that discard the reply body.
func NewCall(ctx *boltrpc.Context, response proto.Message, timeoutMillis int64, requestID string) *Call {
	return &Call{
		state:         Built,
		ctx:           ctx,
		response:      response,
		timeoutMillis: timeoutMillis,
		requestID:     requestID,
		done:          make(chan struct{}),
	}
}

// State reports the call's current position in the state machine.
func (c *Call) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FailureMessage returns the formatted message from the most recent
// SetFailed call, or "" if the call never failed.
func (c *Call) FailureMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failReason
}

func (c *Call) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// -- boltrpc.Controller --

func (c *Call) TimeoutMillis() int64      { return c.timeoutMillis }
func (c *Call) RequestID() string         { return c.requestID }
func (c *Call) Response() proto.Message   { return c.response }
func (c *Call) RpcContext() *boltrpc.Context { c.mu.Lock(); defer c.mu.Unlock(); return c.ctx }

func (c *Call) SetRpcContext(ctx *boltrpc.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
}

// SetFailed records the first failure only: spec.md §7 requires that "any
// late decode error after a status-level failure preserves the earlier
// status text".
func (c *Call) SetFailed(code boltrpc.ErrorCode, format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Failed {
		return
	}
	c.errorCode = code
	c.failReason = fmt.Sprintf(format, args...)
	c.state = Failed
	boltlog.Warnf("sofa bolt call failed: code=%d %s", code, c.failReason)
}

func (c *Call) ErrorCode() boltrpc.ErrorCode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCode
}

// Complete wakes Wait and, unless the call already failed, marks it Parsed.
func (c *Call) Complete() {
	c.mu.Lock()
	if c.state != Failed {
		c.state = Parsed
	}
	c.mu.Unlock()
	close(c.done)
}

// Wait blocks until Complete finalizes the call. SetFailed alone does not
// wake it.
func (c *Call) Wait() {
	<-c.done
}

// -- boltrpc.Socket --

// socketHandle is the minimal Socket implementation Invoke uses to carry
// the correlation id between PackRequest and ProcessResponse within one
// synchronous round trip.
type socketHandle struct {
	correlationID uint64
}

func (s *socketHandle) CorrelationID() uint64     { return s.correlationID }
func (s *socketHandle) SetCorrelationID(id uint64) { s.correlationID = id }

// Method is the boltrpc.MethodDescriptor implementation used by the
// example client and tests.
type Method struct {
	Service         string
	Name            string
	customServiceID string
	hasCustomID     bool
}

// NewMethod describes a plain method with no custom_service_id extension.
func NewMethod(service, name string) Method {
	return Method{Service: service, Name: name}
}

// NewMethodWithCustomServiceID describes a method whose service options
// carry a custom_service_id, exercised by the branching rule in
// spec.md §4.6 step 7 and §9.
func NewMethodWithCustomServiceID(service, name, customServiceID string) Method {
	return Method{Service: service, Name: name, customServiceID: customServiceID, hasCustomID: true}
}

func (m Method) ServiceFullName() string { return m.Service }
func (m Method) MethodName() string      { return m.Name }
func (m Method) CustomServiceID() (string, bool) {
	return m.customServiceID, m.hasCustomID
}

// Dial opens a plain TCP connection to a SOFA Bolt server. The connection
// pool, load balancer, and bthread/task scheduling primitives spec.md §1
// puts out of scope are left to the host framework; Dial exists only so
// the example client and tests have something concrete to Invoke against.
func Dial(network, address string) (net.Conn, error) {
	return net.Dial(network, address)
}

// Invoke serializes reqMsg, packs it as a request frame, writes it to
// conn, then reads and frames the response, driving call through
// Built → Sent → Awaiting → (Parsed | Failed).
func Invoke(conn io.ReadWriter, call *Call, method boltrpc.MethodDescriptor, correlationID uint64, rnd boltrpc.RandomSource, reqMsg proto.Message) error {
	content, err := boltrpc.SerializeRequest(call.ctx, reqMsg)
	if err != nil {
		call.SetFailed(boltrpc.EREQUEST, "%v", err)
		return err
	}

	sock := &socketHandle{}
	out := boltrpc.NewBuffer(nil)
	boltrpc.PackRequest(out, sock, call, method, call.ctx, correlationID, rnd, content)
	if call.State() == Failed {
		return errors.New(call.FailureMessage())
	}

	if _, err := conn.Write(out.Bytes()); err != nil {
		call.SetFailed(boltrpc.EREQUEST, "write sofa bolt request: %v", err)
		return err
	}
	call.setState(Sent)
	call.setState(Awaiting)

	in := boltrpc.NewBuffer(nil)
	readBuf := make([]byte, 4096)
	for {
		msg, perr := boltrpc.ParseMessage(in)
		if perr == nil {
			boltrpc.ProcessResponse(msg, call)
			break
		}
		if !errors.Is(perr, boltrpc.ErrNotEnoughData) {
			call.SetFailed(boltrpc.ERESPONSE, "%v", perr)
			return perr
		}
		n, rerr := conn.Read(readBuf)
		if n > 0 {
			in.Append(readBuf[:n])
		}
		if rerr != nil {
			call.SetFailed(boltrpc.ERESPONSE, "read sofa bolt response: %v", rerr)
			return rerr
		}
	}

	call.Wait()
	if call.State() == Failed {
		return errors.New(call.FailureMessage())
	}
	return nil
}
