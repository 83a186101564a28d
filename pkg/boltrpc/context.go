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

import "github.com/pkg/errors"

// Context carries per-call SOFA Bolt protocol state. Request fields are
// set by user code before the call; response fields are set by the codec
// while parsing the reply and are read-only from outside this package.
// Rather than a friend-class accessor (the source's approach, see
// sofa_bolt_context.h), the response-mutation methods here are simply
// unexported: only code in package boltrpc can call setResponseClassName
// or addResponseHeader, so user code can read response fields but cannot
// construct or corrupt them.
type Context struct {
	// ProtocolVersion selects V1 or V2 framing. Defaults to V1.
	ProtocolVersion ProtocolVersion
	// CRCEnabled requests a trailing CRC32 on V2 frames. Ignored (with a
	// logged warning) under V1.
	CRCEnabled bool
	// ServiceName overrides the service identifier derived from the
	// method descriptor. Empty means "derive it" (see buildServiceIdentifier).
	ServiceName string
	// ServiceVersion defaults to "1.0" when left empty.
	ServiceVersion string
	// ServiceUniqueID, if set, is appended as a third ":"-separated
	// segment of the service identifier.
	ServiceUniqueID string
	// ClassName defaults to DefaultRequestClassName. PackRequest does not
	// read it: every request frame carries DefaultRequestClassName.
	ClassName string

	responseClassName string
	responseHeaders   map[string]string
	responseStatus    ResponseStatus
}

// NewContext returns a Context with the documented defaults applied.
func NewContext() *Context {
	return &Context{
		ProtocolVersion: V1,
		ClassName:       DefaultRequestClassName,
	}
}

// ResponseClassName returns the class name the server reported, or "" if
// the response carried none.
func (c *Context) ResponseClassName() string {
	return c.responseClassName
}

// ResponseHeaderMap returns the response's key-value headers and whether
// the server sent a header region at all (a server that omits it is
// distinct from one that sends an empty map).
func (c *Context) ResponseHeaderMap() (map[string]string, bool) {
	if c.responseHeaders == nil {
		return nil, false
	}
	return c.responseHeaders, true
}

// ResponseStatusCode returns the status code of the most recently
// processed response.
func (c *Context) ResponseStatusCode() ResponseStatus {
	return c.responseStatus
}

func (c *Context) setResponseClassName(name string) {
	c.responseClassName = name
}

func (c *Context) addResponseHeader(key, value string) {
	if c.responseHeaders == nil {
		c.responseHeaders = make(map[string]string)
	}
	c.responseHeaders[key] = value
}

func (c *Context) setResponseStatusCode(status ResponseStatus) {
	c.responseStatus = status
}

// effectiveServiceVersion returns ServiceVersion, defaulting to "1.0".
func (c *Context) effectiveServiceVersion() string {
	if c.ServiceVersion == "" {
		return DefaultServiceVersion
	}
	return c.ServiceVersion
}

// effectiveClassName returns ClassName, defaulting to the fixed SofaRequest
// class literal.
func (c *Context) effectiveClassName() string {
	if c.ClassName == "" {
		return DefaultRequestClassName
	}
	return c.ClassName
}

// checkContext validates a Context for outgoing use (spec.md §4.4,
// "SofaBoltCheckContext"): rejects a protocol version outside {V1, V2},
// and warns (without failing) when CRC is requested under V1, since V1
// framing has no options byte to carry it.
func checkContext(ctx *Context) error {
	if ctx.ProtocolVersion != V1 && ctx.ProtocolVersion != V2 {
		return errors.Errorf("unsupported sofa bolt protocol version %d", ctx.ProtocolVersion)
	}
	if ctx.ProtocolVersion == V1 && ctx.CRCEnabled {
		boltlogWarnCRCIgnoredUnderV1()
	}
	return nil
}
