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

package util

import (
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	type test struct { // an individual test
		name string
		code string
		exp  string
	}
	testCases := []test{
		{
			name: "empty",
			code: ``,
			exp:  ``,
		},
		{
			name: "no indent",
			code: "a: 1\nb: 2",
			exp:  "a: 1\nb: 2",
		},
		{
			name: "heredoc",
			code: `
			a: 1
			b:
				- 2
			`,
			exp: "a: 1\nb:\n\t- 2\n",
		},
		{
			name: "leading blank lines",
			code: "\n\n\t\tx\n\t\ty",
			exp:  "\nx\ny",
		},
	}
	names := []string{}
	for index, tc := range testCases { // run all the tests
		if StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			if out := Code(tc.code); out != tc.exp {
				t.Errorf("expected: %q", tc.exp)
				t.Errorf("got: %q", out)
			}
		})
	}
}

func TestLogWriter(t *testing.T) {
	lines := []string{}
	w := &LogWriter{
		Prefix: "http: ",
		Logf: func(format string, v ...interface{}) {
			lines = append(lines, fmt.Sprintf(format, v...))
		},
	}
	n, err := fmt.Fprintf(w, "hello %s\n", "world")
	if err != nil || n != len("hello world\n") {
		t.Errorf("unexpected write: %d, %+v", n, err)
	}
	if len(lines) != 1 || lines[0] != "http: hello world" {
		t.Errorf("unexpected lines: %q", lines)
	}
}
