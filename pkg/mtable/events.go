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
package mtable

import (
	"github.com/consensys/go-etable/pkg/program"
)

// EventsOf returns the memory events performed by a given execution step, in
// the order of their emid (starting from 1).  The read performed by drop is
// elided, since its value is never used.
func EventsOf(entry *program.Entry) []Event {
	switch step := entry.Step.(type) {
	case *program.ConstStep:
		return []Event{
			StackWrite(entry.Eid, 1, entry.Sp, step.Type, step.Value),
		}
	case *program.GlobalGetStep:
		return []Event{
			GlobalGet(entry.Eid, 1, step.OriginModule, step.OriginIdx, step.Type, step.Value),
			StackWrite(entry.Eid, 2, entry.Sp, step.Type, step.Value),
		}
	case *program.GlobalSetStep:
		return []Event{
			StackRead(entry.Eid, 1, entry.Sp+1, step.Type, step.Value),
			GlobalSet(entry.Eid, 2, step.OriginModule, step.OriginIdx, step.Type, step.Value),
		}
	}
	//
	return nil
}

// InitEvents returns the events initialising every global of a given module.
func InitEvents(module *program.Module) []Event {
	var events = make([]Event, len(module.Globals))
	//
	for i, g := range module.Globals {
		if g.Mutable {
			events[i] = GlobalInit(module.Id, uint64(i), g.Type, g.Init)
		} else {
			events[i] = ImmutableGlobalInit(module.Id, uint64(i), g.Type, g.Init)
		}
	}
	//
	return events
}

// CollectEvents returns all memory events of a given execution, including the
// initialisation of globals.
func CollectEvents(module *program.Module, entries []program.Entry) []Event {
	var events = InitEvents(module)
	//
	for i := range entries {
		events = append(events, EventsOf(&entries[i])...)
	}
	//
	return events
}
