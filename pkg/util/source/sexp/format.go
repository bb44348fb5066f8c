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
package sexp

import (
	"strings"
)

// Formatter lays out S-Expressions over multiple lines, such that (where
// possible) no line exceeds a given width.  A list which does not fit on its
// line is split after its leading elements, with each remaining element on its
// own line indented one level further.  How many leading elements stay on the
// first line is determined by the head symbol of the list (one by default).
type Formatter struct {
	width uint
	keep  map[string]uint
}

// NewFormatter constructs a formatter which aims to fit its output within a
// given width.
func NewFormatter(width uint) *Formatter {
	return &Formatter{width, make(map[string]uint)}
}

// Keep configures the number of leading elements retained on the first line of
// any list with the given head.
func (p *Formatter) Keep(head string, n uint) *Formatter {
	p.keep[head] = max(n, 1)
	return p
}

// Format a given S-Expression, returning one string per line.
func (p *Formatter) Format(sexp SExp) []string {
	return p.format(sexp, 0, nil)
}

func (p *Formatter) format(sexp SExp, indent int, lines []string) []string {
	var (
		prefix = strings.Repeat("   ", indent)
		text   = sexp.String(true)
		list   = sexp.AsList()
	)
	//
	if list == nil || uint(len(prefix)+len(text)) <= p.width || uint(list.Len()) <= p.leading(list) {
		return append(lines, prefix+text)
	}
	//
	var (
		n    = p.leading(list)
		head = make([]string, n)
	)
	//
	for i := range head {
		head[i] = list.Get(i).String(true)
	}
	//
	lines = append(lines, prefix+"("+strings.Join(head, " "))
	//
	for i := int(n); i < list.Len(); i++ {
		lines = p.format(list.Get(i), indent+1, lines)
	}
	//
	lines[len(lines)-1] += ")"
	//
	return lines
}

func (p *Formatter) leading(list *List) uint {
	if list.Len() > 0 {
		if sym := list.Get(0).AsSymbol(); sym != nil {
			if n, ok := p.keep[sym.Value]; ok {
				return n
			}
		}
	}
	//
	return 1
}
