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

import "github.com/sofastack/sofa-bolt-go/pkg/boltlog"

// boltlogWarnCRCIgnoredUnderV1 logs the one warning spec.md §4.4 and §7
// call out by name: a V1 request with CRC enabled is not a failure, just
// a silently-cleared option, but it's worth a log line.
func boltlogWarnCRCIgnoredUnderV1() {
	boltlog.Warnf("sofa bolt v1 does not support crc check, option ignored")
}
