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

package boltlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetLoggerReplacesDefault(t *testing.T) {
	original := current()
	defer SetLogger(original.Desugar())

	observed := zap.NewNop()
	SetLogger(observed)
	assert.NotSame(t, original, current())
}

func TestForContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, current(), ForContext(context.Background()))
	assert.Same(t, current(), ForContext(nil))
}

func TestWithFieldsAttachesRetrievableLogger(t *testing.T) {
	ctx := WithFields(context.Background(), "request_id", "abc")
	l := ForContext(ctx)
	require.NotNil(t, l)
	assert.NotSame(t, current(), l, "WithFields must attach a distinct child logger")
}
