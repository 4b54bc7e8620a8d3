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

//go:build !root

package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	cliUtil "github.com/purpleidea/tygraph/cli/util"
	"github.com/purpleidea/tygraph/util"

	"github.com/spf13/afero"
)

const identityDoc = `
graph: identity
root: main
nodes:
  id:
    lambda:
      pat: {var: "."}
      body: {var: "."}
  main: {apply: [{ref: id}, {op: add, type: {const: Int}, args: [{int: 2}, {int: 3}]}]}
`

func newData(t *testing.T, fs afero.Fs, args ...string) (*cliUtil.Data, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &cliUtil.Data{
		Program: "tygraph",
		Version: "0.0.1-test",
		Copying: "COPYING\n",
		Tagline: "reduce type graphs",
		Args:    append([]string{"tygraph"}, args...),
		Fs:      fs,
		Stdout:  out,
		Flags: cliUtil.Flags{
			Logf: func(format string, v ...interface{}) {
				t.Logf("cli: "+format, v...)
			},
		},
	}, out
}

func TestCLI(t *testing.T) {
	type test struct { // an individual test
		name  string
		files map[string]string
		args  []string
		fail  bool
		out   []string // lines that must be in the output
	}
	testCases := []test{
		{
			name: "version",
			args: []string{"--version"},
			out:  []string{"0.0.1-test"},
		},
		{
			name: "license",
			args: []string{"--license"},
			out:  []string{"COPYING"},
		},
		{
			name: "help without a command",
			args: []string{},
			out:  []string{"reduce"},
		},
		{
			name:  "reduce",
			files: map[string]string{"/x/id.yaml": identityDoc},
			args:  []string{"reduce", "/x/id.yaml"},
			out:   []string{"5", "form: weak"},
		},
		{
			name:  "reduce with events",
			files: map[string]string{"/x/id.yaml": identityDoc},
			args:  []string{"reduce", "--events", "/x/id.yaml"},
			out:   []string{"5", "event: beta", "event: delta"},
		},
		{
			name:  "reduce another root",
			files: map[string]string{"/x/id.yaml": identityDoc},
			args:  []string{"reduce", "--root", "id", "/x/id.yaml"},
			out:   []string{`\v1 -> v1`},
		},
		{
			name: "reduce with the config next to the input",
			files: map[string]string{
				"/x/id.yaml":      identityDoc,
				"/x/tygraph.yaml": "stacklimit: 1\n",
			},
			args: []string{"reduce", "/x/id.yaml"},
			fail: true,
		},
		{
			name: "reduce with a config flag",
			files: map[string]string{
				"/x/id.yaml":  identityDoc,
				"/other.yaml": "fuel: 3\n",
			},
			args: []string{"reduce", "--config", "/other.yaml", "/x/id.yaml"},
			out:  []string{"5"},
		},
		{
			name:  "reduce with a bad config",
			files: map[string]string{"/x/id.yaml": identityDoc, "/bad.yaml": "fuel: -3\n"},
			args:  []string{"reduce", "--config", "/bad.yaml", "/x/id.yaml"},
			fail:  true,
		},
		{
			name: "reduce a missing file",
			args: []string{"reduce", "/nope.yaml"},
			fail: true,
		},
		{
			name:  "reduce a missing root",
			files: map[string]string{"/x/id.yaml": identityDoc},
			args:  []string{"reduce", "--root", "nope", "/x/id.yaml"},
			fail:  true,
		},
		{
			name:  "check",
			files: map[string]string{"/x/id.yaml": identityDoc},
			args:  []string{"check", "/x/id.yaml"},
			out:   []string{"identity: 2 nodes"},
		},
		{
			name: "bad flag",
			args: []string{"reduce", "--frobnicate", "/x/id.yaml"},
			fail: true,
		},
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)

		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for name, content := range tc.files {
				if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
					t.Fatalf("test #%d: write failed: %+v", index, err)
				}
			}
			data, out := newData(t, fs, tc.args...)
			err := CLI(context.Background(), data)
			if !tc.fail && err != nil {
				t.Errorf("test #%d: cli failed with: %+v", index, err)
				return
			}
			if tc.fail && err == nil {
				t.Errorf("test #%d: cli passed, expected fail", index)
				return
			}
			for _, line := range tc.out {
				if !strings.Contains(out.String(), line) {
					t.Errorf("test #%d: expected %q in the output:\n%s", index, line, out.String())
				}
			}
		})
	}
}

func TestReducePrometheus(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/x/id.yaml", []byte(identityDoc), 0644); err != nil {
		t.Fatalf("write failed: %+v", err)
	}
	data, out := newData(t, fs, "reduce", "--prometheus", "--prometheus-listen", "127.0.0.1:0", "/x/id.yaml")
	logs := []string{}
	data.Flags.Logf = func(format string, v ...interface{}) {
		logs = append(logs, fmt.Sprintf(format, v...))
	}

	// already interrupted, so it stops right after reducing
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := CLI(ctx, data); err != nil {
		t.Fatalf("cli failed with: %+v", err)
	}
	if !strings.Contains(out.String(), "5") {
		t.Errorf("expected the result in the output:\n%s", out.String())
	}
	stopped := false
	for _, s := range logs {
		if strings.Contains(s, "stopping instance") {
			stopped = true
		}
		if strings.Contains(s, "exited poorly") {
			t.Errorf("unexpected stop error: %s", s)
		}
	}
	if !stopped {
		t.Errorf("expected the prometheus instance to be stopped, logs: %v", logs)
	}
}

func TestGraphviz(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/id.yaml", []byte(identityDoc), 0644); err != nil {
		t.Fatalf("write failed: %+v", err)
	}
	data, _ := newData(t, fs, "reduce", "--graphviz", "/id.dot", "/id.yaml")
	if err := CLI(context.Background(), data); err != nil {
		t.Fatalf("cli failed: %+v", err)
	}
	dot, err := afero.ReadFile(fs, "/id.dot")
	if err != nil {
		t.Fatalf("no graphviz output: %+v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("unexpected graphviz output:\n%s", dot)
	}
}

func TestLookupSubcommand(t *testing.T) {
	args := &Args{CheckCmd: &CheckArgs{}}
	if name := cliUtil.LookupSubcommand(args, args.CheckCmd); name != "check" {
		t.Errorf("expected check, got: %q", name)
	}
	if name := cliUtil.LookupSubcommand(args, &ReduceArgs{}); name != "" {
		t.Errorf("expected nothing, got: %q", name)
	}
}
