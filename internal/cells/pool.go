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

package cells

import (
	"fmt"

	"github.com/cloudwego/simpler/internal/defs"
	"github.com/davecgh/go-spew/spew"
)

// State is the lifecycle state of a cell.
type State uint8

const (
	Available State = iota
	Used
	PendingInit
	numStates
)

func (self State) String() string {
	switch self {
	case Available:
		return "Available"
	case Used:
		return "Used"
	case PendingInit:
		return "PendingInit"
	default:
		return fmt.Sprintf("State(%d)", self)
	}
}

// NoOwner marks a scratch cell that holds no node output.
const NoOwner = -1

const _NilCell = -1

type cell struct {
	next  int32
	prev  int32
	owner int
	state State
}

type list struct {
	head int32
	tail int32
	size int
}

// Pool is the row of cells. Each cell sits in exactly one of the three
// state lists, linked through the next/prev indices of the cell arena.
type Pool struct {
	cells []cell
	lists [numStates]list
	high  int
}

// New creates a pool of n cells with the first pinned cells in use by the
// circuit inputs of the same index.
func New(n int, pinned int) (*Pool, error) {
	if n <= 0 || pinned < 0 || pinned > n {
		return nil, defs.ERowSize(n, pinned)
	}

	/* initialize the lists */
	p := &Pool{cells: make([]cell, n)}
	for i := range p.lists {
		p.lists[i] = list{head: _NilCell, tail: _NilCell}
	}

	/* every cell starts detached */
	for i := range p.cells {
		p.cells[i] = cell{next: _NilCell, prev: _NilCell, owner: NoOwner}
	}

	/* head insertion, so the highest index is handed out first */
	for i := pinned; i < n; i++ {
		p.push(Available, i)
	}

	/* pin the inputs */
	for i := 0; i < pinned; i++ {
		p.cells[i].owner = i
		p.push(Used, i)
	}

	p.high = p.lists[Used].size
	return p, nil
}

func (self *Pool) push(s State, c int) {
	l := &self.lists[s]
	p := &self.cells[c]

	/* link before the current head */
	p.state = s
	p.prev = _NilCell
	p.next = l.head

	/* update the old head, or the tail if empty */
	if l.head != _NilCell {
		self.cells[l.head].prev = int32(c)
	} else {
		l.tail = int32(c)
	}

	l.head = int32(c)
	l.size++
}

func (self *Pool) unlink(c int) {
	p := &self.cells[c]
	l := &self.lists[p.state]

	/* fix the forward link */
	if p.prev != _NilCell {
		self.cells[p.prev].next = p.next
	} else {
		l.head = p.next
	}

	/* fix the backward link */
	if p.next != _NilCell {
		self.cells[p.next].prev = p.prev
	} else {
		l.tail = p.prev
	}

	p.next = _NilCell
	p.prev = _NilCell
	l.size--
}

// Size is the total number of cells in the row.
func (self *Pool) Size() int {
	return len(self.cells)
}

// Len returns the number of cells in state s.
func (self *Pool) Len(s State) int {
	return self.lists[s].size
}

func (self *Pool) State(c int) State {
	return self.cells[c].state
}

// Owner returns the node that last held cell c, or NoOwner.
func (self *Pool) Owner(c int) int {
	return self.cells[c].owner
}

// HighWater returns the largest number of cells ever in use at once.
// Scratch cells count as used.
func (self *Pool) HighWater() int {
	return self.high
}

// Take moves the head of the available list into use by owner.
func (self *Pool) Take(owner int) (int, bool) {
	if c := self.lists[Available].head; c == _NilCell {
		return _NilCell, false
	} else {
		self.MarkUsed(int(c), owner)
		return int(c), true
	}
}

// MarkUsed moves an available cell into use by owner.
func (self *Pool) MarkUsed(c int, owner int) {
	if s := self.cells[c].state; s != Available {
		panic(fmt.Sprintf("cells: marking cell %d as used while it is %s", c, s))
	}

	/* move to the used list */
	self.unlink(c)
	self.cells[c].owner = owner
	self.push(Used, c)

	/* update the high-water mark */
	if n := self.lists[Used].size; n > self.high {
		self.high = n
	}
}

// Release moves a used cell to the pending-initialization list. The cell
// keeps its owner until it is handed out again.
func (self *Pool) Release(c int) {
	if s := self.cells[c].state; s != Used {
		panic(fmt.Sprintf("cells: releasing cell %d while it is %s", c, s))
	}
	self.unlink(c)
	self.push(PendingInit, c)
}

// Retire moves the whole pending-initialization list into the available
// list in one step. The moved cells are returned in release order.
func (self *Pool) Retire() []int {
	pl := &self.lists[PendingInit]
	al := &self.lists[Available]

	/* nothing to retire */
	if pl.size == 0 {
		return nil
	}

	/* collect the cells, oldest release first */
	ret := make([]int, 0, pl.size)
	for c := pl.tail; c != _NilCell; c = self.cells[c].prev {
		ret = append(ret, int(c))
		self.cells[c].state = Available
	}

	/* splice the pending list before the available head */
	if al.head != _NilCell {
		self.cells[pl.tail].next = al.head
		self.cells[al.head].prev = pl.tail
	} else {
		al.tail = pl.tail
	}

	/* take over the pending list */
	al.head = pl.head
	al.size += pl.size
	*pl = list{head: _NilCell, tail: _NilCell}
	return ret
}

// Cells lists the cells in state s from head to tail.
func (self *Pool) Cells(s State) []int {
	ret := make([]int, 0, self.lists[s].size)
	for c := self.lists[s].head; c != _NilCell; c = self.cells[c].next {
		ret = append(ret, int(c))
	}
	return ret
}

// Validate walks every list and checks that the lists partition the row.
func (self *Pool) Validate() error {
	seen := make([]bool, len(self.cells))
	total := 0

	/* walk every list */
	for s := State(0); s < numStates; s++ {
		n := 0
		prev := int32(_NilCell)

		/* check the links and the states */
		for c := self.lists[s].head; c != _NilCell; c = self.cells[c].next {
			switch {
			case seen[c]:
				return fmt.Errorf("cells: cell %d linked twice", c)
			case self.cells[c].state != s:
				return fmt.Errorf("cells: cell %d is %s but linked in %s", c, self.cells[c].state, s)
			case self.cells[c].prev != prev:
				return fmt.Errorf("cells: broken back link at cell %d", c)
			}
			seen[c] = true
			prev = c
			n++
		}

		/* check the bookkeeping */
		if prev != self.lists[s].tail {
			return fmt.Errorf("cells: %s tail is %d, expected %d", s, self.lists[s].tail, prev)
		} else if n != self.lists[s].size {
			return fmt.Errorf("cells: %s holds %d cells, expected %d", s, n, self.lists[s].size)
		}
		total += n
	}

	/* the lists must cover the whole row */
	if total != len(self.cells) {
		return fmt.Errorf("cells: lists hold %d cells, row has %d", total, len(self.cells))
	} else {
		return nil
	}
}

type snapshot struct {
	Available   []int
	Used        []int
	PendingInit []int
	HighWater   int
}

// Dump renders the list contents for debugging.
func (self *Pool) Dump() string {
	return spew.Sdump(snapshot{
		Available:   self.Cells(Available),
		Used:        self.Cells(Used),
		PendingInit: self.Cells(PendingInit),
		HighWater:   self.high,
	})
}
