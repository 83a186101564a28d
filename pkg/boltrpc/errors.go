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

// ErrorCode is the code passed to Controller.SetFailed. EREQUEST/ERESPONSE
// classify codec-detected problems; a non-success response status is
// reported with its own ResponseStatus value as the code (matching the
// upstream implementation this codec is grounded on), so a caller can
// distinguish "server said no" from "codec couldn't even parse it".
type ErrorCode int

const (
	// EREQUEST marks a problem with the outgoing request/context before
	// anything was sent.
	EREQUEST ErrorCode = -1
	// ERESPONSE marks a problem decoding or validating an inbound frame.
	ERESPONSE ErrorCode = -2
)

// Framing-level sentinel errors returned by ParseMessage. NotEnoughData is
// recoverable: the caller retries once more bytes arrive. AbsolutelyWrong
// is not: the connection must be dropped.
var (
	ErrNotEnoughData   = errors.New("boltrpc: not enough data")
	ErrAbsolutelyWrong = errors.New("boltrpc: unrecognized protocol byte")
)
