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
    `fmt`
    `sort`

    `github.com/cloudwego/simpler/internal/cells`
    `github.com/cloudwego/simpler/internal/circuit`
    `github.com/cloudwego/simpler/internal/defs`
    `github.com/davecgh/go-spew/spew`
    `github.com/oleiade/lane`
)

// Retired is one cell returned to the row by an initialization cycle.
// Owner is the node whose value the cell held, or cells.NoOwner for a
// scratch cell.
type Retired struct {
    Owner int
    Cell  int
}

// InitEvent is one batched initialization cycle.
type InitEvent struct {
    Time  int
    Cells []Retired
}

// Placement is where and when a node was evaluated.
type Placement struct {
    Cells   []int
    Scratch []int
    Time    int
}

// Scheduler maps one circuit onto one row. It holds all the state of a
// single attempt and must not be reused.
type Scheduler struct {
    g      *circuit.Graph
    cat    *defs.Catalog
    est    *Estimator
    pool   *cells.Pool
    rows   int
    order  defs.RootOrder
    fo     []int
    place  []Placement
    inits  []InitEvent
    t      int
    reuse  int
    writes int
    done   int
    ran    bool
    step   func()
}

// NewScheduler prepares an attempt to map g onto a row of the given size.
func NewScheduler(g *circuit.Graph, cat *defs.Catalog, rows int, order defs.RootOrder) (*Scheduler, error) {
    pool, err := cells.New(rows, g.NumInputs())
    if err != nil {
        return nil, err
    }

    /* create the scheduler */
    self := &Scheduler {
        g     : g,
        cat   : cat,
        est   : NewEstimator(g, cat),
        pool  : pool,
        rows  : rows,
        order : order,
        fo    : make([]int, g.Len()),
        place : make([]Placement, g.Len()),
    }

    /* fan-out of every node, circuit outputs hold one extra reference */
    for id := range self.fo {
        if self.fo[id] = g.FanOut(id); g.IsOutput(id) {
            self.fo[id]++
        }
    }

    /* circuit inputs are pinned to the cell of the same index */
    for id := 0; id < g.NumInputs(); id++ {
        self.place[id].Cells = []int { id }
    }

    return self, nil
}

// Run computes the cell usage of every root, then allocates the roots in
// the configured order. The first allocation failure aborts the attempt.
func (self *Scheduler) Run() error {
    if self.ran {
        panic("mapper: scheduler reused")
    }

    /* estimate every root before allocating anything */
    self.ran = true
    roots := append([]int(nil), self.g.Roots()...)
    for _, r := range roots {
        self.est.Estimate(r)
    }

    /* order the roots */
    switch self.order {
        case defs.O_given   : break
        case defs.O_ascend  : sort.SliceStable(roots, func(i int, j int) bool { return self.est.cu[roots[i]] < self.est.cu[roots[j]] })
        case defs.O_descend : sort.SliceStable(roots, func(i int, j int) bool { return self.est.cu[roots[i]] > self.est.cu[roots[j]] })
        default             : panic(fmt.Sprintf("mapper: invalid root order: %s", self.order))
    }

    /* allocate every root */
    for _, r := range roots {
        if err := self.allocateRow(r); err != nil {
            return err
        }
    }
    return nil
}

func (self *Scheduler) allocateRow(root int) error {
    st := lane.NewStack()
    st.Push(&_Frame { id: root, kids: self.est.Ordered(root) })

    /* children first, most demanding child first */
    for !st.Empty() {
        fp := st.Head().(*_Frame)

        /* materialize the next unmapped child */
        if fp.next < len(fp.kids) {
            ch := fp.kids[fp.next]
            fp.next++
            if !self.Mapped(ch) {
                st.Push(&_Frame { id: ch, kids: self.est.Ordered(ch) })
            }
            continue
        }

        /* all the children are mapped, evaluate this node */
        if st.Pop(); !self.Mapped(fp.id) {
            if err := self.evaluate(fp.id); err != nil {
                return err
            }
        }
    }
    return nil
}

func (self *Scheduler) evaluate(id int) error {
    kind := self.g.Node(id).Kind
    gate := self.cat.Gate(kind)
    outs := make([]int, 0, gate.Outputs)
    temp := make([]int, 0, gate.Scratch)

    /* scratch cells, owned by nobody */
    for i := 0; i < gate.Scratch; i++ {
        if c, err := self.allocateCell(id, false, false); err != nil {
            return err
        } else {
            temp = append(temp, c)
        }
    }

    /* output cells */
    for i := 0; i < gate.Outputs; i++ {
        if c, err := self.allocateCell(id, true, i == 0); err != nil {
            return err
        } else {
            outs = append(outs, c)
        }
    }

    /* scratch cells die as soon as the outputs are produced */
    self.place[id].Cells = outs
    if len(temp) != 0 {
        self.place[id].Scratch = temp
        for _, c := range temp {
            self.pool.Release(c)
        }
    }

    /* the first cycle was charged by the first output cell */
    self.t += gate.Latency - 1
    self.done++
    self.notify()
    return nil
}

func (self *Scheduler) allocateCell(id int, owned bool, first bool) (int, error) {
    owner := cells.NoOwner
    if owned {
        owner = id
    }

    /* take an available cell, initializing the pending ones if needed */
    c, ok := self.pool.Take(owner)
    if !ok {
        if self.pool.Len(cells.PendingInit) == 0 {
            return -1, defs.EAllocation(self.rows, id, self.t)
        }
        self.retire()
        c, _ = self.pool.Take(owner)
    }

    /* scratch cells charge no cycle */
    self.writes++
    if !owned {
        self.notify()
        return c, nil
    }

    /* the first output cell starts the gate and consumes its children */
    if first {
        self.t++
        for _, ch := range self.g.Children(id) {
            self.consume(ch)
        }
    }

    /* stamp the node */
    self.place[id].Time = self.t
    self.notify()
    return c, nil
}

func (self *Scheduler) consume(id int) {
    if self.fo[id]--; self.fo[id] < 0 {
        panic(fmt.Sprintf("mapper: negative fan-out on node %d", id))
    }

    /* the last consumer frees the cells */
    if self.fo[id] == 0 {
        for _, c := range self.place[id].Cells {
            self.pool.Release(c)
        }
    }
}

func (self *Scheduler) retire() {
    self.t++
    self.reuse++

    /* move the whole batch at once */
    moved := self.pool.Retire()
    ev := InitEvent {
        Time  : self.t,
        Cells : make([]Retired, len(moved)),
    }

    /* record the previous owners */
    for i, c := range moved {
        ev.Cells[i] = Retired { Owner: self.pool.Owner(c), Cell: c }
    }

    self.inits = append(self.inits, ev)
    self.notify()
}

func (self *Scheduler) notify() {
    if self.step != nil {
        self.step()
    }
}

// Observe registers fn to be called after every change of the row. The
// scheduler is in a consistent state whenever fn runs.
func (self *Scheduler) Observe(fn func()) {
    self.step = fn
}

// Evaluated returns the number of gates evaluated so far.
func (self *Scheduler) Evaluated() int {
    return self.done
}

// Mapped reports whether the node holds its cells.
func (self *Scheduler) Mapped(id int) bool {
    return len(self.place[id].Cells) != 0
}

// Placement returns the cells and the completion cycle of a node.
func (self *Scheduler) Placement(id int) Placement {
    return self.place[id]
}

// CU returns the cell usage computed for a node.
func (self *Scheduler) CU(id int) (int, bool) {
    return self.est.CU(id)
}

// FanOut returns the remaining consumers of a node.
func (self *Scheduler) FanOut(id int) int {
    return self.fo[id]
}

func (self *Scheduler) Pool() *cells.Pool {
    return self.pool
}

// Cycles returns the cycle counter.
func (self *Scheduler) Cycles() int {
    return self.t
}

// Inits returns the initialization cycles recorded so far.
func (self *Scheduler) Inits() []InitEvent {
    return self.inits
}

// Schedule returns the result of a successful Run.
func (self *Scheduler) Schedule() *Schedule {
    return &Schedule {
        Graph       : self.g,
        Catalog     : self.cat,
        RowSize     : self.rows,
        Order       : self.order,
        Placements  : self.place,
        Inits       : self.inits,
        Cycles      : self.t,
        ReuseCycles : self.reuse,
        Writes      : self.writes,
        HighWater   : self.pool.HighWater(),
    }
}

// Dump renders the scheduler state for debugging.
func (self *Scheduler) Dump() string {
    cu := make(map[int]int)
    for id := range self.place {
        if v, ok := self.est.CU(id); ok {
            cu[id] = v
        }
    }
    cfg := spew.ConfigState {
        Indent                  : " ",
        SortKeys                : true,
        DisablePointerMethods   : true,
    }
    return cfg.Sdump(struct {
        Cycles int
        Reuse  int
        CU     map[int]int
        FO     []int
        Place  []Placement
    } {
        Cycles : self.t,
        Reuse  : self.reuse,
        CU     : cu,
        FO     : self.fo,
        Place  : self.place,
    }) + self.pool.Dump()
}
