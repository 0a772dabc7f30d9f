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
    `sync/atomic`

    `github.com/cloudwego/simpler/internal/circuit`
    `github.com/cloudwego/simpler/internal/defs`
)

// Schedule is the outcome of mapping a circuit onto a row.
type Schedule struct {
    Graph       *circuit.Graph
    Catalog     *defs.Catalog
    RowSize     int
    Order       defs.RootOrder
    Placements  []Placement
    Inits       []InitEvent
    Cycles      int
    ReuseCycles int
    Writes      int
    HighWater   int
}

var (
    MapCount    uint64
    FailCount   uint64
    CycleCount  uint64
    ReuseCount  uint64
)

// Map runs a fresh scheduler and returns its schedule.
func Map(g *circuit.Graph, cat *defs.Catalog, rows int, order defs.RootOrder) (*Schedule, error) {
    sc, err := NewScheduler(g, cat, rows, order)
    if err != nil {
        return nil, err
    }

    /* count failed runs as well */
    if err = sc.Run(); err != nil {
        atomic.AddUint64(&FailCount, 1)
        return nil, err
    }

    /* update the global counters */
    ret := sc.Schedule()
    atomic.AddUint64(&MapCount, 1)
    atomic.AddUint64(&CycleCount, uint64(ret.Cycles))
    atomic.AddUint64(&ReuseCount, uint64(ret.ReuseCycles))
    return ret, nil
}
