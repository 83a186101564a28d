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

// Package boltlog is the codec's diagnostic logger. It follows mosn's
// pkg/log shape — a single mutable DefaultLogger, level-gated Infof/
// Warnf/Errorf helpers, a context-scoped accessor — but is backed by
// go.uber.org/zap instead of a hand-rolled file writer, since the codec
// itself has no rolling-file or syslog requirement, only the need to
// surface a handful of structured warnings and errors alongside the
// Controller.SetFailed calls that are the actual error-reporting channel.
package boltlog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// DefaultLogger is the process-wide logger used by package boltrpc. It can
// be replaced wholesale (e.g. in tests, or by a host application that
// wants its own zap.Logger) via SetLogger.
var DefaultLogger = newDefault()

var mu sync.RWMutex

func newDefault() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar().Named("boltrpc")
}

// SetLogger replaces the default logger, e.g. with a *zap.Logger the host
// application already configured.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	DefaultLogger = l.Sugar().Named("boltrpc")
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return DefaultLogger
}

func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

type ctxKey struct{}

// WithFields returns a context carrying a logger pre-populated with the
// given key-value pairs (e.g. request id, correlation id), retrievable via
// ForContext — mirroring mosn's log.ByContext(ctx) pattern.
func WithFields(ctx context.Context, keyValues ...interface{}) context.Context {
	return context.WithValue(ctx, ctxKey{}, current().With(keyValues...))
}

// ForContext returns the logger attached by WithFields, or the default
// logger if ctx carries none.
func ForContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return current()
}
