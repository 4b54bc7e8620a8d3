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

package lang

import (
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/tygraph/util"

	"github.com/davecgh/go-spew/spew"
	"github.com/kylelemons/godebug/pretty"
)

func TestConfigParse(t *testing.T) {
	type test struct { // an individual test
		name   string
		yaml   string
		fail   bool
		config *Config
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{
			name:   "empty",
			yaml:   ``,
			fail:   false,
			config: DefaultConfig(),
		})
	}
	{
		testCases = append(testCases, test{
			name: "empty file defaults",
			yaml: util.Code(`
			# empty file
			`),
			fail:   false,
			config: DefaultConfig(),
		})
	}
	{
		testCases = append(testCases, test{
			name: "set values",
			yaml: util.Code(`
			stacklimit: 42
			fuel: 7
			strong: true
			debug: true
			monitor: "127.0.0.1:9233"
			`),
			fail: false,
			config: &Config{
				StackLimit: 42,
				Fuel:       7,
				Strong:     true,
				Debug:      true,
				Monitor:    "127.0.0.1:9233",
				parsed:     true,
			},
		})
	}
	{
		config := DefaultConfig()
		config.Strong = true
		config.parsed = true
		testCases = append(testCases, test{
			name: "partial document defaults",
			yaml: util.Code(`
			strong: true
			`),
			fail:   false,
			config: config,
		})
	}
	{
		testCases = append(testCases, test{
			name: "negative stack limit",
			yaml: util.Code(`
			stacklimit: -1
			`),
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "unknown field",
			yaml: util.Code(`
			turbo: true
			`),
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "bad type",
			yaml: util.Code(`
			fuel: lots
			`),
			fail: true,
		})
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)

		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			config, err := ParseConfig(strings.NewReader(tc.yaml))

			if !tc.fail && err != nil {
				t.Errorf("test #%d: config parse failed with: %+v", index, err)
				return
			}
			if tc.fail && err == nil {
				t.Errorf("test #%d: config parse passed, expected fail", index)
				return
			}
			if tc.fail {
				return
			}

			if diff := pretty.Compare(tc.config, config); diff != "" {
				t.Errorf("test #%d: config did not match expected", index)
				t.Logf("test #%d:   actual: \n\n%s\n", index, spew.Sdump(config))
				t.Logf("test #%d: expected: \n\n%s", index, spew.Sdump(tc.config))
				t.Logf("test #%d: diff:\n%s", index, diff)
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Monitor = ":9233"
	b, err := config.ToBytes()
	if err != nil {
		t.Fatalf("could not marshal: %+v", err)
	}
	if strings.Contains(string(b), "parsed") {
		t.Errorf("private fields leaked into the output:\n%s", b)
	}
	parsed, err := ParseConfig(strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("could not parse: %+v", err)
	}
	if parsed.Monitor != ":9233" || parsed.StackLimit != config.StackLimit {
		t.Errorf("unexpected config: %s", spew.Sdump(parsed))
	}
}
