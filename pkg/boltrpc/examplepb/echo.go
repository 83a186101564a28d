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

// Package examplepb supplies the request/response message pair used by
// the client example and its tests to exercise the codec's protobuf
// codec path (com.example.Echo/echoObj in the concrete test scenarios).
// It is built on google.golang.org/protobuf/types/known/structpb rather
// than a hand-maintained generated .pb.go, so the module needs no protoc
// build step yet still round-trips through the real proto.Message
// machinery the codec calls.
package examplepb

import "google.golang.org/protobuf/types/known/structpb"

// NewEchoRequest builds the request body for com.example.Echo/echoObj.
func NewEchoRequest(name, group string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"name":  name,
		"group": group,
	})
}

// EchoRequestName reads the "name" field back out of a request built by
// NewEchoRequest.
func EchoRequestName(req *structpb.Struct) string {
	return req.GetFields()["name"].GetStringValue()
}

// EchoRequestGroup reads the "group" field back out of a request built by
// NewEchoRequest.
func EchoRequestGroup(req *structpb.Struct) string {
	return req.GetFields()["group"].GetStringValue()
}

// NewEchoResponse builds the response body echoed back by the example
// service.
func NewEchoResponse(text string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"text": text,
	})
}

// EchoResponseText reads the "text" field out of a response built by
// NewEchoResponse.
func EchoResponseText(resp *structpb.Struct) string {
	return resp.GetFields()["text"].GetStringValue()
}
