package cobalt

import (
	"golang.org/x/xerrors"
)

// Definition declares a command by type. Use returns the same text as
// Command.Use. The optional interfaces below add the rest of a command.
type Definition interface {
	Use() string
}

// Shorter provides Command.Short.
type Shorter interface {
	Short() string
}

// Longer provides Command.Long.
type Longer interface {
	Long() string
}

// FlagRegisterer registers flags on the command built from the definition,
// usually bound to fields of the definition itself.
type FlagRegisterer interface {
	RegisterFlags(c *Command)
}

// Runner is the handler of a definition.
type Runner interface {
	Run(args Arguments) int
}

// Parent lists the children of a definition.
type Parent interface {
	Subcommands() []Constructor
}

// Constructor builds one command of a tree.
type Constructor func() (*Command, error)

// Of returns the Constructor of the definition type T.
//
//	func (RootCommand) Subcommands() []cobalt.Constructor {
//		return []cobalt.Constructor{cobalt.Of[PrintCommand](), cobalt.Of[EchoCommand]()}
//	}
func Of[T any, PT interface {
	*T
	Definition
}]() Constructor {
	return Build[T, PT]
}

// Build allocates a T and turns it into a Command tree.
//
// Exported fields tagged `cobalt:"--long -s default description"` become
// flags bound to the new value, persistent when also tagged
// `persistent:"true"`. RegisterFlags runs afterwards, Run becomes the handler
// and the Subcommands are built and added in order.
func Build[T any, PT interface {
	*T
	Definition
}]() (*Command, error) {
	return FromDefinition(PT(new(T)))
}

// FromDefinition turns an existing definition value into a Command tree.
func FromDefinition(d Definition) (*Command, error) {
	cmd := NewCommand()
	cmd.Use = d.Use()
	if cmd.Name() == "" {
		return nil, xerrors.Errorf("%T: empty Use", d)
	}
	if s, ok := d.(Shorter); ok {
		cmd.Short = s.Short()
	}
	if l, ok := d.(Longer); ok {
		cmd.Long = l.Long()
	}

	if err := bindStruct(d, cmd.LocalFlags(), cmd.PersistentFlags()); err != nil {
		return nil, xerrors.Errorf("%s: %w", cmd.Name(), err)
	}
	if r, ok := d.(FlagRegisterer); ok {
		r.RegisterFlags(cmd)
	}
	if r, ok := d.(Runner); ok {
		cmd.Run = r.Run
	}

	if p, ok := d.(Parent); ok {
		for _, build := range p.Subcommands() {
			child, err := build()
			if err != nil {
				return nil, err
			}
			if err = cmd.AddCommand(child); err != nil {
				return nil, err
			}
		}
	}
	return cmd, nil
}

// Execute builds the tree declared by T and executes argv against it.
// A tree that cannot be built is reported like a command line error.
//
//	func main() {
//		os.Exit(cobalt.Execute[RootCommand](os.Args))
//	}
func Execute[T any, PT interface {
	*T
	Definition
}](argv []string, opts ...Option) int {
	cmd, err := Build[T, PT]()
	if err != nil {
		newOptions(opts).fail(nil, err)
		return ExitUsage
	}
	return cmd.Execute(argv, opts...)
}
