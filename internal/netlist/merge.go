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

package netlist

import (
	"github.com/cloudwego/simpler/internal/defs"
	"github.com/oleiade/lane"
)

// MergeHalfAdders replaces every xor2 and and2 pair reading the same two
// signals with a single ha cell. It returns the number of pairs merged.
func (self *Netlist) MergeHalfAdders() int {
	return self.merge(defs.K_and2, defs.K_ha)
}

// MergeHalfSubtractors replaces every xor2 and bout pair reading the same
// two signals with a single hs cell. It returns the number of pairs merged.
func (self *Netlist) MergeHalfSubtractors() int {
	return self.merge(defs.K_bout, defs.K_hs)
}

func pairKey(a string, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func isPair(p *Instance, kind defs.GateKind) bool {
	return p.Kind == kind && len(p.Ins) == 2 && len(p.Outs) == 1
}

func (self *Netlist) merge(partner defs.GateKind, into defs.GateKind) int {
	q := lane.NewQueue()
	idx := make(map[string][]int)

	/* queue the xor2 cells, index the partners by their operands */
	for i, p := range self.Instances {
		if isPair(p, defs.K_xor2) {
			q.Enqueue(i)
		} else if isPair(p, partner) {
			k := pairKey(p.Ins[0], p.Ins[1])
			idx[k] = append(idx[k], i)
		}
	}

	/* pair every xor2 with the first free partner */
	n := 0
	drop := make([]bool, len(self.Instances))
	for !q.Empty() {
		i := q.Dequeue().(int)
		x := self.Instances[i]
		k := pairKey(x.Ins[0], x.Ins[1])

		/* find the partner */
		pv := idx[k]
		if len(pv) == 0 {
			continue
		}

		/* the partner's operand order is kept, the borrow is not symmetric */
		y := self.Instances[pv[0]]
		idx[k] = pv[1:]
		drop[pv[0]] = true
		self.Instances[i] = &Instance{
			Name: x.Name,
			Cell: into.CellName(),
			Kind: into,
			Ins:  []string{y.Ins[0], y.Ins[1]},
			Outs: []string{x.Outs[0], y.Outs[0]},
			Line: x.Line,
		}
		n++
	}

	/* nothing merged */
	if n == 0 {
		return 0
	}

	/* remove the absorbed partners */
	ret := self.Instances[:0]
	for i, p := range self.Instances {
		if !drop[i] {
			ret = append(ret, p)
		}
	}
	self.Instances = ret
	return n
}
