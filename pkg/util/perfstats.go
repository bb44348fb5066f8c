// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// Phase records the time and memory taken by one phase of building or checking
// a circuit, such as configuring its tables, assigning the execution table or
// checking constraints.  The cost is reported at debug level when the phase is
// done.
type Phase struct {
	name string
	// When the phase began
	start time.Time
	// Total bytes allocated when the phase began
	alloc uint64
	// Number of completed GC cycles when the phase began
	gcs uint32
}

// StartPhase begins recording a named phase.
func StartPhase(name string) *Phase {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &Phase{name, time.Now(), m.TotalAlloc, m.NumGC}
}

// Done reports the cost of this phase, returning the fields logged.
func (p *Phase) Done() log.Fields {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	fields := log.Fields{
		"time": time.Since(p.start).Round(time.Millisecond).String(),
		"mb":   (m.TotalAlloc - p.alloc) / 1024 / 1024,
		"gcs":  m.NumGC - p.gcs,
	}
	//
	log.WithFields(fields).Debugf("%s done", p.name)
	//
	return fields
}
