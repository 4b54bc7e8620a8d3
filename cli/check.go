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

	cliUtil "github.com/purpleidea/tygraph/cli/util"
	"github.com/purpleidea/tygraph/lang"
	"github.com/purpleidea/tygraph/util/errwrap"
	"github.com/purpleidea/tygraph/yamlgraph"
)

// CheckArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains the flags for the `check` subcommand.
type CheckArgs struct {
	Input string `arg:"positional,required" help:"yaml graph document to check"`

	Config string `arg:"--config" help:"yaml config file, defaults to tygraph.yaml next to the input"`
}

// Run executes the check subcommand. It builds every node of the document and
// audits the resulting heap, without reducing anything.
func (obj *CheckArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	config, err := loadConfig(data.Fs, obj.Config, obj.Input)
	if err != nil {
		return false, err
	}
	doc, err := yamlgraph.ParseFile(data.Fs, obj.Input)
	if err != nil {
		return false, err
	}
	l := &lang.Lang{
		Config: config,
		Debug:  data.Flags.Debug,
		Logf: func(format string, v ...interface{}) {
			data.Flags.Logf("lang: "+format, v...)
		},
	}
	if err := l.Init(); err != nil {
		return false, err
	}
	addrs, err := doc.Build(l.Builder())
	if err != nil {
		return false, errwrap.Wrapf(err, "could not build graph %s", doc.Graph)
	}
	if err := l.Verify(); err != nil {
		return false, errwrap.Wrapf(err, "graph %s is invalid", doc.Graph)
	}
	data.Printf("%s: %d nodes, %d cells, ok", doc.Graph, len(addrs), l.Heap().Len())
	return true, nil
}
