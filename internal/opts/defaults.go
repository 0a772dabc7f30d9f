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

package opts

import (
	"os"
	"strconv"

	"github.com/cloudwego/simpler/internal/defs"
)

const (
	_DefaultMaxGates = 0 // no limit on the circuit size
)

var (
	RootOrder  = orderOrDefault("SIMPLER_ROOT_ORDER", defs.O_given)
	Technology = technologyOrDefault("SIMPLER_TECHNOLOGY", defs.DefaultTechnology)
	MaxGates   = parseOrDefault("SIMPLER_MAX_GATES", _DefaultMaxGates, 0)
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("simpler: invalid value for " + key)
	} else if ret := int(val); ret < min {
		panic("simpler: value too small for " + key)
	} else {
		return ret
	}
}

func orderOrDefault(key string, def defs.RootOrder) defs.RootOrder {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, ok := defs.ParseRootOrder(env); !ok {
		panic("simpler: invalid root order for " + key + ": " + env)
	} else {
		return val
	}
}

func technologyOrDefault(key string, def string) string {
	if env := os.Getenv(key); env == "" {
		return def
	} else if _, err := defs.LookupTechnology(env); err != nil {
		panic("simpler: invalid value for " + key + ": " + err.Error())
	} else {
		return env
	}
}
