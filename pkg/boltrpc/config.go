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

// ClientConfig holds long-lived client settings that outlive any single
// call: the target address, the defaults a fresh Context should start
// from, and how many connections a pool sitting in front of the codec is
// allowed to hold open. It has no behavior of its own — NewContext derives
// a per-call Context from it, and the connection pool sizing is a plain
// field a host framework's pool constructor can read.
type ClientConfig struct {
	Address              string
	DefaultTimeoutMillis int64
	DefaultServiceVer    string
	MaxConnsPerHost      int
}

// ClientOption mutates a ClientConfig under construction.
type ClientOption func(*ClientConfig)

// WithAddress sets the host:port a Dial call against this config should
// target.
func WithAddress(address string) ClientOption {
	return func(c *ClientConfig) {
		c.Address = address
	}
}

// WithDefaultTimeoutMillis sets the timeout applied to calls that don't
// override it explicitly.
func WithDefaultTimeoutMillis(millis int64) ClientOption {
	return func(c *ClientConfig) {
		c.DefaultTimeoutMillis = millis
	}
}

// WithDefaultServiceVersion sets the service version string new Contexts
// derived from this config carry when the caller doesn't override it.
func WithDefaultServiceVersion(version string) ClientOption {
	return func(c *ClientConfig) {
		c.DefaultServiceVer = version
	}
}

// WithMaxConnsPerHost sets the connection pool's per-host ceiling. It is
// read by the pool constructor a host framework wires up in front of this
// codec; boltrpc itself neither pools nor dials.
func WithMaxConnsPerHost(n int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxConnsPerHost = n
	}
}

// defaultMaxConnsPerHost mirrors the ceiling mosn's sofarpc connection
// pool falls back to when a cluster manifest doesn't set one explicitly.
const defaultMaxConnsPerHost = 1

// NewClientConfig builds a ClientConfig with the documented defaults
// (v1-equivalent timeout of 3000ms, "1.0" service version, a single
// pooled connection per host) applied before opts run.
func NewClientConfig(address string, opts ...ClientOption) *ClientConfig {
	c := &ClientConfig{
		Address:              address,
		DefaultTimeoutMillis: 3000,
		DefaultServiceVer:    DefaultServiceVersion,
		MaxConnsPerHost:      defaultMaxConnsPerHost,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewContext returns a Context seeded from c's defaults: ProtocolVersion
// still defaults to V1 and can be overridden on the returned value like
// any other Context field.
func (c *ClientConfig) NewContext() *Context {
	ctx := NewContext()
	ctx.ServiceVersion = c.DefaultServiceVer
	return ctx
}
