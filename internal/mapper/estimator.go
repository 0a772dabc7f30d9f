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

package mapper

import (
    `sort`

    `github.com/cloudwego/simpler/internal/circuit`
    `github.com/cloudwego/simpler/internal/defs`
    `github.com/oleiade/lane`
)

type _Frame struct {
    id   int
    next int
    kids []int
}

// Estimator computes the cell usage (CU) of every node: the fewest cells
// needed to evaluate the sub-DAG rooted at it when independent children
// are evaluated in the best order.
type Estimator struct {
    g    *circuit.Graph
    cat  *defs.Catalog
    cu   []int
    done []bool
}

func NewEstimator(g *circuit.Graph, cat *defs.Catalog) *Estimator {
    return &Estimator {
        g    : g,
        cat  : cat,
        cu   : make([]int, g.Len()),
        done : make([]bool, g.Len()),
    }
}

// CU returns the memoized cell usage of a node.
func (self *Estimator) CU(id int) (int, bool) {
    return self.cu[id], self.done[id]
}

// Estimate computes the cell usage of the sub-DAG rooted at id. Values
// already computed are never recomputed.
func (self *Estimator) Estimate(id int) int {
    st := lane.NewStack()
    st.Push(&_Frame { id: id })

    /* post-order walk with an explicit stack */
    for !st.Empty() {
        fp := st.Head().(*_Frame)
        kids := self.g.Children(fp.id)

        /* descend into the next child that has no value yet */
        if fp.next < len(kids) {
            ch := kids[fp.next]
            fp.next++
            if !self.done[ch] {
                st.Push(&_Frame { id: ch })
            }
            continue
        }

        /* all the children are done, compute this one */
        if st.Pop(); !self.done[fp.id] {
            self.cu[fp.id] = self.compute(fp.id)
            self.done[fp.id] = true
        }
    }

    return self.cu[id]
}

func (self *Estimator) compute(id int) int {
    p := self.g.Node(id)
    kids := self.g.Children(id)

    /* circuit inputs are resident */
    if p.Input {
        return 0
    }

    /* leaves only need their own cells, a single child passes through */
    switch len(kids) {
        case 0  : return self.cat.Scratch(p.Kind) + self.cat.Outputs(p.Kind)
        case 1  : return self.cu[kids[0]]
    }

    /* max over i of CU_i + i, with CU sorted descending */
    ret := 0
    for i, ch := range self.Ordered(id) {
        if v := self.cu[ch] + i; v > ret {
            ret = v
        }
    }
    return ret
}

// Ordered returns the children of id by descending cell usage. Children
// with equal usage keep their operand order.
func (self *Estimator) Ordered(id int) []int {
    kids := self.g.Children(id)
    ret := make([]int, len(kids))
    copy(ret, kids)

    /* stable sort by CU */
    sort.SliceStable(ret, func(i int, j int) bool {
        return self.cu[ret[i]] > self.cu[ret[j]]
    })
    return ret
}
