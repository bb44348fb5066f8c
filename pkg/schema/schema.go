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
package schema

import (
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Schema represents a circuit at definition time: a fixed column layout,
// together with the constraints which any valid trace for that layout must
// satisfy.  Constraints are purely additive and their order is irrelevant to
// whether or not a trace is accepted.
type Schema struct {
	layout      *trace.Layout
	constraints []constraint.Constraint
}

// NewSchema constructs an empty schema over a given layout.
func NewSchema(layout *trace.Layout) *Schema {
	return &Schema{layout, nil}
}

// Layout returns the column layout of this schema.
func (p *Schema) Layout() *trace.Layout {
	return p.layout
}

// Constraints returns the constraints of this schema.
func (p *Schema) Constraints() []constraint.Constraint {
	return p.constraints
}

// AddConstraints adds zero or more constraints to this schema.
func (p *Schema) AddConstraints(constraints ...constraint.Constraint) {
	p.constraints = append(p.constraints, constraints...)
}

// Check a given trace against every constraint of this schema, returning the
// failures identified (if any).  At most one failure is reported per
// constraint.  Constraints are checked concurrently using at most the given
// number of workers (where zero indicates no limit).  Failures are returned in
// the order of their constraints, regardless of scheduling.
func (p *Schema) Check(tr *trace.ArrayTrace, workers uint) []constraint.Failure {
	var (
		stats    = util.StartPhase("checking constraints")
		failures = make([]constraint.Failure, len(p.constraints))
		group    errgroup.Group
	)
	//
	if workers > 0 {
		group.SetLimit(int(workers))
	}
	//
	for i, c := range p.constraints {
		group.Go(func() error {
			// Each job writes only its own slot
			failures[i] = c.Accepts(tr)
			//
			return nil
		})
	}
	// Checking never fails with an error, only with failures.
	_ = group.Wait()
	//
	res := compact(failures)
	//
	stats.Done()
	log.Debugf("checked %d constraints (%d failures)", len(p.constraints), len(res))
	//
	return res
}

func compact(failures []constraint.Failure) []constraint.Failure {
	var res []constraint.Failure
	//
	for _, f := range failures {
		if f != nil {
			res = append(res, f)
		}
	}
	//
	return res
}
