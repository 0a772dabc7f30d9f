/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/simpler/internal/cells"
	"github.com/cloudwego/simpler/internal/circuit"
	"github.com/cloudwego/simpler/internal/defs"
	"github.com/cloudwego/simpler/internal/mapper"
)

// Kind tells assignments from initialization cycles.
type Kind uint8

const (
	Assignment Kind = iota
	Initialization
)

// Interm names a retired scratch cell.
const Interm = "Interm"

// Binding is a signal name and the cell holding it. Constants have no cell.
type Binding struct {
	Name string
	Cell int
}

func (self Binding) String() string {
	if self.Cell < 0 {
		return self.Name
	} else {
		return fmt.Sprintf("%s(%d)", self.Name, self.Cell)
	}
}

// Event is one line of the execution sequence.
type Event struct {
	Kind    Kind
	Time    int
	Node    int
	Gate    defs.GateKind
	Outputs []Binding
	Inputs  []Binding
	Scratch []int
	Retired []Binding
}

// Label returns the cycle label of the event.
func (self *Event) Label() string {
	return fmt.Sprintf("T%d", self.Time)
}

// Body renders the event without its label.
func (self *Event) Body() string {
	if self.Kind == Initialization {
		return "Initialization{" + joinBindings(self.Retired) + "}"
	} else {
		return joinBindings(self.Outputs) + "=" + self.Gate.String() + "{" + joinBindings(self.Inputs) + "}"
	}
}

func (self *Event) String() string {
	return self.Label() + ":" + self.Body()
}

func joinBindings(bv []Binding) string {
	ss := make([]string, len(bv))
	for i, b := range bv {
		ss[i] = b.String()
	}
	return strings.Join(ss, ",")
}

// Trace is the execution sequence of a schedule, ordered by cycle.
type Trace []*Event

// NewTrace merges the gate assignments and the initialization cycles of a
// schedule. On the same cycle an initialization comes first.
func NewTrace(s *mapper.Schedule) Trace {
	g := s.Graph
	ret := make(Trace, 0, g.NumGates()+len(s.Inits))

	/* every evaluated gate */
	for id := g.NumInputs(); id < g.Len(); id++ {
		if len(s.Placements[id].Cells) != 0 {
			ret = append(ret, assignment(s, id))
		}
	}

	/* every initialization cycle */
	for i := range s.Inits {
		ret = append(ret, initialization(s, &s.Inits[i]))
	}

	/* order by cycle */
	sort.SliceStable(ret, func(i int, j int) bool {
		if ret[i].Time != ret[j].Time {
			return ret[i].Time < ret[j].Time
		} else {
			return ret[i].Kind > ret[j].Kind
		}
	})
	return ret
}

func assignment(s *mapper.Schedule, id int) *Event {
	p := s.Graph.Node(id)
	pl := s.Placements[id]
	ev := &Event{
		Kind:    Assignment,
		Time:    pl.Time,
		Node:    id,
		Gate:    p.Kind,
		Outputs: make([]Binding, len(pl.Cells)),
		Inputs:  make([]Binding, len(p.Ins)),
		Scratch: pl.Scratch,
	}

	/* output cells */
	for i, c := range pl.Cells {
		ev.Outputs[i] = Binding{Name: p.Outs[i], Cell: c}
	}

	/* operand cells, constants are not held anywhere */
	for i, name := range p.Ins {
		if a := p.Args[i]; a == circuit.NoNode {
			ev.Inputs[i] = Binding{Name: name, Cell: -1}
		} else {
			ev.Inputs[i] = Binding{Name: name, Cell: cellOf(s, a, name)}
		}
	}
	return ev
}

func initialization(s *mapper.Schedule, ie *mapper.InitEvent) *Event {
	ev := &Event{
		Kind:    Initialization,
		Time:    ie.Time,
		Node:    circuit.NoNode,
		Retired: make([]Binding, len(ie.Cells)),
	}

	/* name every retired cell after the signal it held */
	for i, r := range ie.Cells {
		if r.Owner == cells.NoOwner {
			ev.Retired[i] = Binding{Name: Interm, Cell: r.Cell}
		} else {
			ev.Retired[i] = Binding{Name: signalOf(s, r.Owner, r.Cell), Cell: r.Cell}
		}
	}
	return ev
}

func cellOf(s *mapper.Schedule, id int, name string) int {
	pl := s.Placements[id]
	for i, out := range s.Graph.Node(id).Outs {
		if out == name && i < len(pl.Cells) {
			return pl.Cells[i]
		}
	}
	return -1
}

func signalOf(s *mapper.Schedule, id int, cell int) string {
	p := s.Graph.Node(id)
	for i, c := range s.Placements[id].Cells {
		if c == cell {
			return p.Outs[i]
		}
	}
	panic(fmt.Sprintf("report: cell %d is not held by node %d", cell, id))
}

// Holding replays the first n events and returns the cells that hold a
// value afterwards, excluding the cells pinned to circuit inputs.
func (self Trace) Holding(n int) []int {
	set := make(map[int]bool)
	for _, ev := range self[:n] {
		switch ev.Kind {
		case Assignment:
			for _, b := range ev.Outputs {
				set[b.Cell] = true
			}
			for _, c := range ev.Scratch {
				set[c] = true
			}
		case Initialization:
			for _, b := range ev.Retired {
				delete(set, b.Cell)
			}
		}
	}

	/* sort the cells */
	ret := make([]int, 0, len(set))
	for c := range set {
		ret = append(ret, c)
	}
	sort.Ints(ret)
	return ret
}

func (self Trace) String() string {
	var sb strings.Builder
	for _, ev := range self {
		sb.WriteString(ev.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
