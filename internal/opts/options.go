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
	"github.com/cloudwego/simpler/internal/defs"
)

type Options struct {
	RootOrder  defs.RootOrder
	Technology string
	Catalog    *defs.Catalog
	MaxGates   int
}

// GetCatalog returns the explicit catalog if set, or the technology preset.
func (self *Options) GetCatalog() (*defs.Catalog, error) {
	if self.Catalog != nil {
		return self.Catalog, nil
	} else {
		return defs.LookupTechnology(self.Technology)
	}
}

// CanMap reports whether a circuit with n gates is within the size limit.
func (self *Options) CanMap(n int) bool {
	return self.MaxGates == 0 || n <= self.MaxGates
}

func GetDefaultOptions() Options {
	return Options{
		RootOrder:  RootOrder,
		Technology: Technology,
		MaxGates:   MaxGates,
	}
}
