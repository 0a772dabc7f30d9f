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

package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/simpler"
	"github.com/cloudwego/simpler/debug"
	"github.com/cloudwego/simpler/internal/defs"
	"github.com/cloudwego/simpler/internal/export"
	"github.com/cloudwego/simpler/internal/netlist"
	"github.com/pkg/errors"
)

type job struct {
	name string
	g    *simpler.Graph
	rows int
	res  *simpler.Result
	err  error
}

func parseRows(s string) ([]int, error) {
	var ret []int
	for _, v := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err != nil || n <= 0 {
			return nil, errors.Errorf("invalid row size %q", v)
		} else {
			ret = append(ret, n)
		}
	}
	return ret, nil
}

func listInputs(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "input")
	}

	/* a single netlist */
	if !fi.IsDir() {
		return []string{path}, nil
	}

	/* every file of the directory */
	ents, err := ioutil.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "input directory")
	}
	var ret []string
	for _, e := range ents {
		if !e.IsDir() {
			ret = append(ret, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(ret)
	return ret, nil
}

func load(path string, merge bool, warn bool) (*simpler.Graph, error) {
	var warnf func(string, ...interface{})
	if warn {
		warnf = func(format string, args ...interface{}) {
			log.Printf("** Warning ** %s: %s", path, fmt.Sprintf(format, args...))
		}
	}

	/* parse the netlist */
	nl, err := netlist.ReadFile(path, warnf)
	if err != nil {
		return nil, err
	}

	/* merge the multi-output cells */
	if merge {
		ha := nl.MergeHalfAdders()
		hs := nl.MergeHalfSubtractors()
		log.Printf("%s: merged %d half adders and %d half subtractors", nl.Name, ha, hs)
	}
	return nl.Graph()
}

func mapAll(jobs []*job, workers int, opt []simpler.Option) {
	ch := make(chan *job)
	wg := sync.WaitGroup{}

	/* start the workers */
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				j.res, j.err = simpler.Map(j.g, j.rows, opt...)
			}
		}()
	}

	/* feed every job */
	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()
}

// run returns the exit status once every open file and session is closed.
func run() int {
	var in, rows, order, tech, jsondir, mongo, db, logp string
	var maxGates, workers int
	var merge, full, warn, search, dbg bool

	// Command line switches ///////////////////////////////////////////////////

	flag.StringVar(&in, "in", "", "netlist file, or directory of netlists (req.)")
	flag.StringVar(&rows, "rows", "1024", "comma separated list of row sizes")
	flag.StringVar(&order, "order", "", "root order: given, ascend or descend")
	flag.StringVar(&tech, "tech", "", "technology: "+strings.Join(simpler.Technologies(), ", "))
	flag.StringVar(&jsondir, "json", "", "directory where JSON reports are written")
	flag.StringVar(&mongo, "mongo", "", "url of the mongodb server storing the reports")
	flag.StringVar(&db, "db", export.DefaultDatabase, "name of the mongodb database")
	flag.StringVar(&logp, "log", "", "path to file where log messages should be redirected")

	flag.IntVar(&maxGates, "max-gates", 0, "skip netlists with more gates, 0 for no limit")
	flag.IntVar(&workers, "j", runtime.NumCPU(), "number of mappings run at once")

	flag.BoolVar(&merge, "merge", true, "merge xor2/and2 and xor2/bout pairs into ha and hs cells")
	flag.BoolVar(&full, "print", false, "print the full mapping report")
	flag.BoolVar(&warn, "warn", false, "print warnings about unsupported cells")
	flag.BoolVar(&search, "min", false, "search the smallest row size up to the largest of -rows")
	flag.BoolVar(&dbg, "debug", false, "enable debug mode")

	flag.Parse()

	// Set log flags ///////////////////////////////////////////////////////////

	log.SetFlags(0)
	if dbg {
		log.SetFlags(log.Lshortfile)
	}

	// Check for minimum arguments /////////////////////////////////////////////

	if in == "" || workers <= 0 {
		flag.PrintDefaults()
		log.Fatal("Insufficient arguments")
	}

	// If a log file is specified redirect log messages to it; stderr otherwise

	var logw io.Writer = os.Stderr
	if logp != "" {
		fp, err := os.Create(logp)
		if err != nil {
			log.Fatal(err)
		}
		defer fp.Close()
		logw = fp
	}
	log.SetOutput(logw)

	// Mapping options /////////////////////////////////////////////////////////

	sizes, err := parseRows(rows)
	if err != nil {
		log.Print(err)
		return 1
	}

	opt := []simpler.Option{simpler.WithMaxGates(maxGates)}
	if order != "" {
		if o, ok := defs.ParseRootOrder(order); !ok {
			log.Printf("Invalid root order %q", order)
			return 1
		} else {
			opt = append(opt, simpler.WithRootOrder(o))
		}
	}
	if tech != "" {
		if _, err := defs.LookupTechnology(tech); err != nil {
			log.Print(err)
			return 1
		}
		opt = append(opt, simpler.WithTechnology(tech))
	}

	// Report sinks ////////////////////////////////////////////////////////////

	var sinks []export.Sink
	if jsondir != "" {
		if err := os.MkdirAll(jsondir, 0755); err != nil {
			log.Print(err)
			return 1
		}
		sinks = append(sinks, export.Dir(jsondir))
	}
	if mongo != "" {
		ms, err := export.DialMongo(mongo, db)
		if err != nil {
			log.Print(err)
			return 1
		}
		defer ms.Close()
		sinks = append(sinks, ms)
	}

	// Load the netlists ///////////////////////////////////////////////////////

	paths, err := listInputs(in)
	if err != nil {
		log.Print(err)
		return 1
	}

	var jobs []*job
	start := time.Now()
	for _, path := range paths {
		g, err := load(path, merge, warn)
		if err != nil {
			log.Printf("%v, skip", err)
			continue
		}
		if maxGates != 0 && g.NumGates() > maxGates {
			log.Printf("** net too big, skip %s: %d gates\n", g.Name(), g.NumGates())
			continue
		}
		log.Println(g)

		/* the smallest row that fits */
		if search {
			hi := sizes[0]
			for _, n := range sizes {
				if n > hi {
					hi = n
				}
			}
			if n, err := simpler.MinRowSize(g, 0, hi, opt...); err != nil {
				log.Printf("%s: %v", g.Name(), err)
			} else {
				log.Printf("%s: smallest row size is %d", g.Name(), n)
			}
		}

		/* one job per row size */
		for _, n := range sizes {
			jobs = append(jobs, &job{name: g.Name(), g: g, rows: n})
		}
	}
	log.Printf("%d netlists loaded. Elapsed: %v", len(jobs)/len(sizes), time.Since(start))

	// Map everything //////////////////////////////////////////////////////////

	start = time.Now()
	mapAll(jobs, workers, opt)
	log.Printf("%d mappings done. Elapsed: %v", len(jobs), time.Since(start))
	if dbg {
		st := debug.GetStats()
		log.Printf("mapped %d, failed %d, %d cycles of which %d reuse", st.Mapped, st.Failed, st.Cycles.Total, st.Cycles.Reuse)
	}

	// Report in input order ///////////////////////////////////////////////////

	failed := 0
	for _, j := range jobs {
		if j.err != nil {
			failed++
			log.Printf("%s: row size %d: %v", j.name, j.rows, j.err)
			continue
		}

		/* print the outcome */
		rp := j.res.Report
		if full {
			fmt.Print(rp)
		} else {
			fmt.Printf("%s rows=%d gates=%d cycles=%d reuse=%d writes=%d digest=%016x\n",
				rp.Benchmark, rp.Stats.RowSize, rp.Stats.Gates, rp.Stats.TotalCycles, rp.Stats.ReuseCycles, rp.Stats.Writes, rp.Digest)
		}

		/* store the report */
		doc := export.NewDocument(rp)
		for _, s := range sinks {
			if err := s.Save(doc); err != nil {
				log.Printf("%s: %v", j.name, err)
			}
		}
	}

	if failed != 0 {
		log.Printf("%d of %d mappings failed", failed, len(jobs))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
