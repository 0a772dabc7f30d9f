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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/simpler/internal/mapper"
)

// A Stats records statistics about every mapping run in this process.
type Stats struct {
	Mapped int
	Failed int
	Cycles CycleStats
}

// A CycleStats records the cycles spent by successful mappings.
type CycleStats struct {
	Total int
	Reuse int
}

// GetStats returns statistics of the mapper.
func GetStats() Stats {
	return Stats{
		Mapped: int(atomic.LoadUint64(&mapper.MapCount)),
		Failed: int(atomic.LoadUint64(&mapper.FailCount)),
		Cycles: CycleStats{
			Total: int(atomic.LoadUint64(&mapper.CycleCount)),
			Reuse: int(atomic.LoadUint64(&mapper.ReuseCount)),
		},
	}
}
