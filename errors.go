package cobalt

import (
	"fmt"
	"strings"
)

// DuplicateCommandError is returned by AddCommand when two siblings share a name.
type DuplicateCommandError struct {
	Parent string
	Name   string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("duplicate command %q under %q", e.Name, e.Parent)
}

// FlagRedefinedError reports a flag name that is visible twice from one command.
type FlagRedefinedError struct {
	Command string
	Name    string
}

func (e *FlagRedefinedError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("flag redefined: %s", e.Name)
	}
	return fmt.Sprintf("flag redefined in %q: %s", e.Command, e.Name)
}

// UnknownFlagError is returned when a flag token matches no visible flag.
type UnknownFlagError struct {
	Command string
	Flag    string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag: %s", e.Flag)
}

// MissingFlagValueError is returned when a flag that takes a value ends the line.
type MissingFlagValueError struct {
	Command string
	Flag    string
}

func (e *MissingFlagValueError) Error() string {
	return fmt.Sprintf("flag needs an argument: %s", e.Flag)
}

// FlagTypeError is returned when a value cannot be converted to the flag's type.
type FlagTypeError struct {
	Flag  string
	Type  string
	Value string
	Err   error
}

func (e *FlagTypeError) Error() string {
	return fmt.Sprintf("invalid %s value %q for flag %s: %v", e.Type, e.Value, e.Flag, e.Err)
}

func (e *FlagTypeError) Unwrap() error {
	return e.Err
}

// NoSuchCommandError is returned when a router command receives a word that
// names none of its children.
type NoSuchCommandError struct {
	Command     string
	Name        string
	Suggestions []string
}

func (e *NoSuchCommandError) Error() string {
	msg := fmt.Sprintf("unknown command %q for %q", e.Name, e.Command)
	if len(e.Suggestions) > 0 {
		msg += "\n\nDid you mean this?\n\t" + strings.Join(e.Suggestions, "\n\t")
	}
	return msg
}
