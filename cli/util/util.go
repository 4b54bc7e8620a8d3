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

// Package util has some CLI related utility code.
package util

import (
	"fmt"
	"io"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/spf13/afero"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

const (
	// NoInput means a command that needs an input document didn't get one.
	NoInput = Error("no input document given")
)

// CliParseError returns a consistent error if we have a CLI parsing issue.
func CliParseError(err error) error {
	return errwrap.Wrapf(err, "cli parse error")
}

// Flags are some constant flags which are used throughout the program.
type Flags struct {
	Debug   bool // add additional log messages
	Verbose bool // add extra log message output

	Logf func(format string, v ...interface{})
}

// Data is a struct of values that we usually pass to the main CLI function.
type Data struct {
	Program string
	Version string
	Copying string
	Tagline string
	Flags   Flags
	Args    []string // os.Args usually

	// Fs is where input documents are read from and output is written to.
	Fs afero.Fs

	// Stdout receives the results of the commands.
	Stdout io.Writer
}

// LookupSubcommand returns the name of the subcommand in the obj, of a struct.
// This is useful for determining the name of the subcommand that was activated.
// It returns an empty string if a specific name was not found.
func LookupSubcommand(obj interface{}, st interface{}) string {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr { // max one de-referencing
		val = val.Elem()
	}

	v := reflect.ValueOf(st) // value of the struct
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if val.Field(i).Interface() != v.Interface() {
			continue
		}
		alias, ok := typ.Field(i).Tag.Lookup("arg")
		if !ok {
			continue
		}
		for _, x := range strings.Split(alias, ",") {
			if name, ok := strings.CutPrefix(x, "subcommand:"); ok {
				return name // found
			}
		}
	}
	return "" // not found
}

// Hello is a simple helper function to print a hello message and time.
func Hello(program, version string, flags Flags) {
	if program == "" {
		program = "<unknown>"
	}
	logFlags := log.LstdFlags - log.Ldate // remove the date for now
	if flags.Debug {
		logFlags = logFlags + log.Lshortfile
	}
	log.SetFlags(logFlags)

	flags.Logf("This is: %s, version: %s", program, version)
	if flags.Verbose {
		flags.Logf("main: start: %v", time.Now().UnixNano())
	}
}

// Printf writes a result line to the output of the data.
func (obj *Data) Printf(format string, v ...interface{}) {
	fmt.Fprintf(obj.Stdout, format+"\n", v...)
}
