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

package util

import (
	"strings"
)

// Code takes a code block as a backtick enclosed `heredoc` and removes the tab
// indentation of its first non empty line from every line. A leading empty line
// is dropped. This lets yaml documents be inlined in tests.
func Code(code string) string {
	lines := strings.Split(code, "\n")
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	strip := ""
	for _, x := range lines {
		if x == "" {
			continue
		}
		strip = x[:len(x)-len(strings.TrimLeft(x, "\t"))]
		break
	}
	for i, x := range lines {
		lines[i] = strings.TrimPrefix(x, strip)
	}
	return strings.Join(lines, "\n")
}

// StrInList returns true if needle is found in haystack.
func StrInList(needle string, haystack []string) bool {
	for _, x := range haystack {
		if needle == x {
			return true
		}
	}
	return false
}

// LogWriter adapts a Logf function to the io.Writer interface, eg for the
// error log of an http server.
type LogWriter struct {
	Prefix string
	Logf   func(format string, v ...interface{})
}

// Write satisfies the io.Writer interface.
func (obj *LogWriter) Write(p []byte) (n int, err error) {
	obj.Logf("%s%s", obj.Prefix, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
