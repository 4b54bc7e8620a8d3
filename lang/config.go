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

package lang

import (
	"fmt"
	"io"

	"github.com/purpleidea/tygraph/lang/funcs"
	"github.com/purpleidea/tygraph/lang/reduce"
	"github.com/purpleidea/tygraph/util/errwrap"

	"gopkg.in/yaml.v2"
)

// ConfigFilename is the name of the config file that the cli looks for next to
// the input document.
const ConfigFilename = "tygraph.yaml"

// Config is the tuning of one Lang. Absent values take the defaults from
// DefaultConfig.
type Config struct {
	// StackLimit caps the number of nodes that are being reduced at once.
	StackLimit int `yaml:"stacklimit"`

	// Fuel is the number of steps that Equal compares for before giving up
	// with an unknown answer.
	Fuel int `yaml:"fuel"`

	// Strong makes the builder target the strong form, so that everything
	// built through the Lang gets normalized under binders too.
	Strong bool `yaml:"strong"`

	// Debug enables the debug logs of every component.
	Debug bool `yaml:"debug"`

	// Monitor is the listen address of the prometheus endpoint. It is off
	// when empty.
	Monitor string `yaml:"monitor"`

	// parsed is set whenever a document was decoded, since an empty yaml
	// document resets every field to the zero value.
	parsed bool
}

// DefaultConfig returns the config used for absent values.
func DefaultConfig() *Config {
	return &Config{
		StackLimit: reduce.DefaultStackLimit,
		Fuel:       funcs.EqFuel,
	}
}

// UnmarshalYAML is the standard unmarshal method for this struct.
func (obj *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type indirect Config // indirection to avoid infinite recursion
	raw := indirect(*DefaultConfig()) // the defaults go here

	if err := unmarshal(&raw); err != nil {
		return err
	}

	*obj = Config(raw) // restore from indirection with type conversion!
	obj.parsed = true
	return nil
}

// Validate returns an error if the config can't be used.
func (obj *Config) Validate() error {
	if obj.StackLimit <= 0 {
		return fmt.Errorf("the stacklimit must be positive, got: %d", obj.StackLimit)
	}
	if obj.Fuel <= 0 {
		return fmt.Errorf("the fuel must be positive, got: %d", obj.Fuel)
	}
	return nil
}

// ToBytes returns the yaml representation of the config.
func (obj *Config) ToBytes() ([]byte, error) {
	return yaml.Marshal(obj)
}

// ParseConfig reads a config from some input. An empty input gives the default
// config.
func ParseConfig(reader io.Reader) (*Config, error) {
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read config")
	}
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(b, config); err != nil {
		return nil, errwrap.Wrapf(err, "can't parse config")
	}
	if !config.parsed { // empty document
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errwrap.Wrapf(err, "invalid config")
	}
	return config, nil
}
