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
package trace

import "fmt"

// Layout describes the column structure of a trace, independently of any
// concrete data.  A layout is fixed at circuit definition time: columns are
// declared in a deterministic order and their indices never change thereafter.
type Layout struct {
	modules []ModuleLayout
}

// ModuleLayout describes the columns of a single module (e.g. the execution
// table).
type ModuleLayout struct {
	name    string
	columns []string
	index   map[string]uint
}

// NewLayout constructs an empty layout.
func NewLayout() *Layout {
	return &Layout{}
}

// AddModule declares a new module with the given name, returning its
// identifier.  Module names must be unique.
func (p *Layout) AddModule(name string) ModuleId {
	for _, m := range p.modules {
		if m.name == name {
			panic(fmt.Sprintf("duplicate module \"%s\"", name))
		}
	}
	//
	p.modules = append(p.modules, ModuleLayout{name, nil, make(map[string]uint)})
	//
	return uint(len(p.modules) - 1)
}

// AddColumn declares a new column in the given module.  Column names must be
// unique within their module.
func (p *Layout) AddColumn(mid ModuleId, name string) ColumnRef {
	var module = &p.modules[mid]
	//
	if _, ok := module.index[name]; ok {
		panic(fmt.Sprintf("duplicate column \"%s.%s\"", module.name, name))
	}
	//
	cid := uint(len(module.columns))
	module.columns = append(module.columns, name)
	module.index[name] = cid
	//
	return NewColumnRef(mid, cid)
}

// Modules returns the number of modules in this layout.
func (p *Layout) Modules() uint {
	return uint(len(p.modules))
}

// Module returns the layout of a given module.
func (p *Layout) Module(mid ModuleId) *ModuleLayout {
	return &p.modules[mid]
}

// ColumnName returns the qualified name of a given column.
func (p *Layout) ColumnName(ref ColumnRef) string {
	var module = &p.modules[ref.Module()]
	//
	return fmt.Sprintf("%s.%s", module.name, module.columns[ref.Column()])
}

// Name returns the name of this module.
func (p *ModuleLayout) Name() string {
	return p.name
}

// Width returns the number of columns declared in this module.
func (p *ModuleLayout) Width() uint {
	return uint(len(p.columns))
}

// ColumnName returns the name of the given column in this module.
func (p *ModuleLayout) ColumnName(cid uint) string {
	return p.columns[cid]
}

// ColumnOf looks up a column by name.
func (p *ModuleLayout) ColumnOf(name string) (uint, bool) {
	cid, ok := p.index[name]
	//
	return cid, ok
}
