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
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics namespace/subsystem follow mosn's pkg/metrics convention of
// dotted-then-underscored names rather than the raw protocol name.
const (
	metricsNamespace = "sofa_bolt"
	metricsSubsystem = "client"
)

var (
	framesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "frames_sent_total",
		Help:      "SOFA Bolt request frames packed and appended to the output buffer.",
	}, []string{"version"})

	framesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "frames_received_total",
		Help:      "SOFA Bolt response frames split off the socket buffer by the framer.",
	}, []string{"version"})

	crcFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "crc_failures_total",
		Help:      "Responses rejected because their trailing CRC32 did not match.",
	}, []string{"version"})

	responseStatusCodes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "response_status_total",
		Help:      "Responses processed, labeled by their SOFA Bolt response status code.",
	}, []string{"status"})

	frameSizeBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "frame_size_bytes",
		Help:      "Size in bytes of framed messages, split by direction.",
		Buckets:   prometheus.ExponentialBuckets(64, 2, 12),
	}, []string{"direction"})
)

func init() {
	prometheus.MustRegister(framesSent, framesReceived, crcFailures, responseStatusCodes, frameSizeBytes)
}

func observeFrameSent(version ProtocolVersion, size int) {
	v := versionLabel(version)
	framesSent.WithLabelValues(v).Inc()
	frameSizeBytes.WithLabelValues("sent").Observe(float64(size))
}

func observeFrameReceived(version ProtocolVersion, size int) {
	v := versionLabel(version)
	framesReceived.WithLabelValues(v).Inc()
	frameSizeBytes.WithLabelValues("received").Observe(float64(size))
}

func observeCRCFailure(version ProtocolVersion) {
	crcFailures.WithLabelValues(versionLabel(version)).Inc()
}

func observeResponseStatus(status ResponseStatus) {
	responseStatusCodes.WithLabelValues(strconv.Itoa(int(status))).Inc()
}

func versionLabel(v ProtocolVersion) string {
	if v == V1 {
		return "v1"
	}
	return "v2"
}
