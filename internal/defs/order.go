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

package defs

import (
	"fmt"
)

// RootOrder selects the order in which roots are allocated.
type RootOrder uint8

const (
	O_given   RootOrder = iota // declaration order
	O_ascend                   // ascending cell usage
	O_descend                  // descending cell usage
)

var rootOrderNames = [...]string{
	O_given:   "given",
	O_ascend:  "ascend",
	O_descend: "descend",
}

func (self RootOrder) String() string {
	if int(self) < len(rootOrderNames) {
		return rootOrderNames[self]
	} else {
		return fmt.Sprintf("RootOrder(%d)", self)
	}
}

// ParseRootOrder accepts "given", "ascend" or "descend".
func ParseRootOrder(s string) (RootOrder, bool) {
	for i, v := range rootOrderNames {
		if v == s {
			return RootOrder(i), true
		}
	}
	return 0, false
}
