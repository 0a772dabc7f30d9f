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
	"math"

	"github.com/cloudwego/simpler/internal/circuit"
	"github.com/cloudwego/simpler/internal/mapper"
)

// Stats summarizes a schedule.
type Stats struct {
	RowSize       int
	Inputs        int
	Gates         int
	TotalCycles   int
	ReuseCycles   int
	ComputeCycles int
	InitRatio     float64
	Writes        int
	UsedCells     int
	HighWater     int
	PairedGates   int // gates left once adjacent gates of the same kind are merged
	PairedCycles  int // total cycles once adjacent gates of the same kind are merged
	Halstead      Halstead
}

// Halstead holds the software science metrics of the execution sequence,
// read as a program of gate calls.
type Halstead struct {
	Operators      int
	Operands       int
	TotalOperators int
	TotalOperands  int
	Vocabulary     int
	Length         int
	Volume         float64
	Difficulty     float64
	Effort         float64
	Intelligence   float64
}

var seedOperators = []string{",", "()", ";"}

func newStats(s *mapper.Schedule, tr Trace) Stats {
	ret := Stats{
		RowSize:       s.RowSize,
		Inputs:        s.Graph.NumInputs(),
		TotalCycles:   s.Cycles,
		ReuseCycles:   s.ReuseCycles,
		ComputeCycles: s.Cycles - s.ReuseCycles,
		Writes:        s.Writes,
		HighWater:     s.HighWater,
		PairedCycles:  s.Cycles,
	}

	/* initialization share of the total */
	if s.Cycles != 0 {
		ret.InitRatio = float64(s.ReuseCycles) / float64(s.Cycles)
	}

	/* walk the assignments */
	used := make(map[int]bool)
	prev := ""
	paired := false
	h := newCounter()
	for _, ev := range tr {
		if ev.Kind != Assignment {
			continue
		}

		/* every cell the gate touched */
		ret.Gates++
		for _, b := range ev.Outputs {
			used[b.Cell] = true
		}
		for _, c := range ev.Scratch {
			used[c] = true
		}

		/* a gate of the same kind as an unpaired predecessor runs with it */
		op := ev.Gate.String()
		if op == prev && !paired {
			paired = true
			ret.PairedCycles -= s.Catalog.Latency(ev.Gate)
			h.add(s.Graph.Node(ev.Node), false)
		} else {
			paired = false
			h.add(s.Graph.Node(ev.Node), true)
		}
		prev = op
	}

	/* collect the results */
	ret.UsedCells = len(used)
	ret.PairedGates = ret.Gates - h.paired
	ret.Halstead = h.metrics()
	return ret
}

type counter struct {
	ops    map[string]bool
	args   map[string]bool
	nops   int
	nargs  int
	paired int
}

func newCounter() *counter {
	ret := &counter{
		ops:  make(map[string]bool),
		args: make(map[string]bool),
	}
	for _, op := range seedOperators {
		ret.ops[op] = true
	}
	return ret
}

func (self *counter) add(p *circuit.Node, call bool) {
	self.ops[p.Kind.String()] = true
	self.nargs += len(p.Ins)
	self.nops += len(p.Ins)

	/* an unpaired gate is a full call statement */
	if call {
		self.nops += 3
	} else {
		self.paired++
	}

	/* operands are the driving nodes, constants go by name */
	for i, name := range p.Ins {
		if a := p.Args[i]; a == circuit.NoNode {
			self.args[name] = true
		} else {
			self.args[fmt.Sprintf("#%d", a)] = true
		}
	}
}

func (self *counter) metrics() Halstead {
	ret := Halstead{
		Operators:      len(self.ops),
		Operands:       len(self.args),
		TotalOperators: self.nops,
		TotalOperands:  self.nargs,
	}

	/* derived metrics */
	ret.Vocabulary = ret.Operators + ret.Operands
	ret.Length = ret.TotalOperators + ret.TotalOperands
	ret.Volume = float64(ret.Length) * math.Log2(float64(ret.Vocabulary))

	/* an empty sequence has no difficulty */
	if ret.Operands != 0 {
		ret.Difficulty = float64(ret.Operators) * float64(ret.TotalOperands) / float64(2*ret.Operands)
	}
	if ret.Effort = ret.Difficulty * ret.Volume; ret.Difficulty != 0 {
		ret.Intelligence = ret.Volume / ret.Difficulty
	}
	return ret
}
