// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

// Source identifies where a layer's values came from. Higher sources take
// precedence over lower ones.
type Source int

const (
	// Void is the source of a field which no layer has set.
	Void Source = iota

	// Default is the source of the root layer holding every global default.
	Default

	// ConfigFile is the source of values read from the project config file.
	ConfigFile

	// ContractAnnotation is the source of values attached to a contract.
	ContractAnnotation

	// FunctionAnnotation is the source of values attached to a single function.
	FunctionAnnotation

	// CommandLine is the source of values given as command line flags.
	CommandLine
)

var sourceNames = map[Source]string{
	Void:               "void",
	Default:            "default",
	ConfigFile:         "config_file",
	ContractAnnotation: "contract_annotation",
	FunctionAnnotation: "function_annotation",
	CommandLine:        "command_line",
}

// String implements the fmt.Stringer interface.
func (s Source) String() string {
	name, ok := sourceNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseSource converts the string form of a Source back into a Source.
// Unrecognised names return Void and false.
func ParseSource(name string) (Source, bool) {
	for src, n := range sourceNames {
		if n == name {
			return src, true
		}
	}
	return Void, false
}
