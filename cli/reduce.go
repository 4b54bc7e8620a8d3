// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

package cli

import (
	"context"
	"os"
	"path/filepath"

	cliUtil "github.com/purpleidea/tygraph/cli/util"
	"github.com/purpleidea/tygraph/lang"
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/lang/reduce"
	"github.com/purpleidea/tygraph/prometheus"
	"github.com/purpleidea/tygraph/util/errwrap"
	"github.com/purpleidea/tygraph/yamlgraph"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"
)

// ReduceArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains the flags for the `reduce` subcommand.
type ReduceArgs struct {
	Input string `arg:"positional,required" help:"yaml graph document to reduce"`

	Config string `arg:"--config" help:"yaml config file, defaults to tygraph.yaml next to the input"`

	Root string `arg:"--root" help:"name of the node to reduce instead of the document root"`

	Weak bool `arg:"--weak" help:"stop at the weak form"`

	Strong bool `arg:"--strong" help:"build everything with the strong target"`

	StackLimit int `arg:"--stack-limit" help:"maximum number of nodes being reduced at once"`

	Events bool `arg:"--events" help:"print every reduction event"`

	Graphviz string `arg:"--graphviz" help:"output filename for graphviz data"`

	GraphvizFilter string `arg:"--graphviz-filter" help:"graphviz filter to use"`

	Prometheus bool `arg:"--prometheus" help:"serve the reduction metrics until interrupted"`

	PrometheusListen string `arg:"--prometheus-listen" help:"specify prometheus instance binding"`
}

// Run executes the reduce subcommand.
func (obj *ReduceArgs) Run(ctx context.Context, data *cliUtil.Data) (_ bool, reterr error) {
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf("reduce: "+format, v...)
	}
	cliUtil.Hello(data.Program, data.Version, data.Flags)

	config, err := loadConfig(data.Fs, obj.Config, obj.Input)
	if err != nil {
		return false, err
	}
	if obj.Strong {
		config.Strong = true
	}
	if obj.StackLimit > 0 {
		config.StackLimit = obj.StackLimit
	}
	if obj.PrometheusListen != "" {
		config.Monitor = obj.PrometheusListen
	}
	if obj.Prometheus && config.Monitor == "" {
		config.Monitor = prometheus.DefaultPrometheusListen
	}

	doc, err := yamlgraph.ParseFile(data.Fs, obj.Input)
	if err != nil {
		return false, err
	}
	root := doc.Root
	if obj.Root != "" {
		root = obj.Root
	}
	if root == "" {
		return false, errwrap.Wrapf(cliUtil.NoInput, "graph %s has no root", doc.Graph)
	}

	monitors := reduce.Monitors{}
	if obj.Events {
		monitors = append(monitors, reduce.MonitorFunc(func(event *reduce.Event) {
			data.Printf("event: %s", event)
		}))
	}
	var prom *prometheus.Prometheus
	if config.Monitor != "" {
		prom = &prometheus.Prometheus{
			Listen: config.Monitor,
			Logf: func(format string, v ...interface{}) {
				data.Flags.Logf("prometheus: "+format, v...)
			},
		}
		monitors = append(monitors, prom)
	}

	l := &lang.Lang{
		Config:  config,
		Monitor: monitors,
		Debug:   data.Flags.Debug,
		Logf: func(format string, v ...interface{}) {
			data.Flags.Logf("lang: "+format, v...)
		},
	}
	if err := l.Init(); err != nil {
		return false, err
	}
	if prom != nil {
		prom.Heap = l.Heap()
		if err := prom.Init(); err != nil {
			return false, err
		}
		if err := prom.Start(); err != nil {
			return false, err
		}
		defer func() {
			Logf("prometheus: stopping instance")
			if err := prom.Stop(); err != nil {
				err = errwrap.Wrapf(err, "the prometheus instance exited poorly")
				Logf("%+v", err)
				reterr = errwrap.Append(reterr, err)
			}
		}()
	}

	addrs, err := doc.Build(l.Builder())
	if err != nil {
		return false, errwrap.Wrapf(err, "could not build graph %s", doc.Graph)
	}
	addr, exists := addrs[root]
	if !exists {
		return false, errwrap.Wrapf(interfaces.ErrInvalidAddr, "node %s does not exist", root)
	}
	Logf("built %d nodes into %d cells", len(addrs), l.Heap().Len())

	limit := interfaces.FormStrong
	if obj.Weak {
		limit = interfaces.FormWeak
	}
	out, err := l.ReduceTo(addr, limit)
	if err != nil {
		return false, errwrap.Wrapf(err, "could not reduce %s", root)
	}
	if err := printResult(data, l.Heap(), out); err != nil {
		return false, err
	}

	if obj.Graphviz != "" {
		if err := l.ExecGraphviz(data.Fs, obj.GraphvizFilter, obj.Graphviz, addr); err != nil {
			return false, errwrap.Wrapf(err, "graphviz failed")
		}
		Logf("graphviz written to: %s", obj.Graphviz)
	}

	if prom != nil {
		Logf("serving metrics on %s until interrupted", prom.Addr())
		<-ctx.Done()
	}
	return true, nil
}

// printResult prints the reduced node without its indirections, and its form.
func printResult(data *cliUtil.Data, h *heap.Heap, addr heap.Addr) error {
	c, err := h.CopyWithoutIndirections(addr)
	if err != nil {
		return errwrap.Wrapf(err, "could not copy the result")
	}
	if data.Flags.Debug {
		data.Flags.Logf("cell @%d: %s", c, spew.Sdump(h.Cell(c)))
	}
	data.Printf("%s", h.String(c))
	data.Printf("form: %s", h.FormOf(addr))
	return nil
}

// loadConfig reads the config file if one was given. Otherwise it looks for the
// default config file next to the input, and uses the defaults if there is
// none.
func loadConfig(fs afero.Fs, filename, input string) (*lang.Config, error) {
	if filename == "" {
		filename = filepath.Join(filepath.Dir(input), lang.ConfigFilename)
		if _, err := fs.Stat(filename); os.IsNotExist(err) {
			return lang.DefaultConfig(), nil
		}
	}
	f, err := fs.Open(filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't open config")
	}
	defer f.Close()
	config, err := lang.ParseConfig(f)
	if err != nil {
		return nil, errwrap.Wrapf(err, "config %s", filename)
	}
	return config, nil
}
