// Package cobalt builds command line programs out of a tree of subcommands.
//
// Each Command carries help text, typed flags and an optional handler.
// Execute walks the leading words of the command line down the tree, parses
// the remaining flags against the flags visible from the command it reached,
// and calls its handler with the positional arguments:
//
//	root := cobalt.NewCommand()
//	root.Use = "echo"
//
//	var times int
//	cmd := cobalt.NewCommand()
//	cmd.Use = "echo [text to print]"
//	cmd.Short = "Echo the given text on screen."
//	cmd.Run = func(args cobalt.Arguments) int {
//		for i := 0; i < times; i++ {
//			fmt.Println(strings.Join(args, " "))
//		}
//		return 0
//	}
//	cmd.PersistentFlags().IntVar(&times, "times", "t", 1, "The number of times to print the text")
//
//	if err := root.AddCommand(cmd); err != nil {
//		log.Fatal(err)
//	}
//	os.Exit(root.Execute(os.Args))
//
// Trees may also be declared with types, see Build.
//
// A tree is meant to be executed once per process. Flags write straight into
// the variables they were registered with, so one tree must not be executed
// concurrently.
package cobalt

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Exit statuses returned by Execute. Any other status comes from a handler.
const (
	ExitOK    = 0
	ExitHelp  = 1 // help was shown because the command has no handler
	ExitUsage = 2 // the command line or the tree is invalid
)

const defaultHelpWidth = 80

// Option configures Execute.
type Option func(*options)

type options struct {
	stdout io.Writer
	stderr io.Writer
	l      *zap.Logger
	width  int
}

// WithOutput sets where help is written. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithErrOutput sets where errors and their usage are written. The default is os.Stderr.
func WithErrOutput(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithLogger sets the logger used for debug traces of dispatch.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.l = l
	}
}

// WithHelpWidth sets the column long descriptions are wrapped at; 0 disables wrapping.
func WithHelpWidth(width int) Option {
	return func(o *options) {
		o.width = width
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		stdout: os.Stdout,
		stderr: os.Stderr,
		l:      zap.NewNop(),
		width:  defaultHelpWidth,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// fail reports err and, for command line errors, the usage of cmd.
func (o *options) fail(cmd *Command, err error) {
	o.l.Debug("Command failed", zap.Error(err))
	fmt.Fprintf(o.stderr, "Error: %v\n", err)

	var dup *DuplicateCommandError
	var redef *FlagRedefinedError
	if cmd == nil || xerrors.As(err, &dup) || xerrors.As(err, &redef) {
		return
	}
	fmt.Fprintln(o.stderr)
	describe(cmd, o.width).write(o.stderr)
}

// Execute runs the command line argv against the tree rooted at c and
// returns the exit status. argv[0] is the program name and is skipped.
//
// The handler's status is returned as is. A command without handler prints
// its help and returns ExitHelp. Errors are printed with usage to the error
// output and return ExitUsage without running any handler; flags parsed
// before the failing token keep their new values.
func (c *Command) Execute(argv []string, opts ...Option) int {
	o := newOptions(opts)
	code, cmd, err := c.execute(argv, o)
	if err != nil {
		o.fail(cmd, err)
	}
	return code
}

// ExecuteE is Execute returning the error instead of printing it.
func (c *Command) ExecuteE(argv []string, opts ...Option) (int, error) {
	code, _, err := c.execute(argv, newOptions(opts))
	return code, err
}

func (c *Command) execute(argv []string, o *options) (int, *Command, error) {
	if len(argv) > 0 {
		argv = argv[1:]
	}

	if err := c.freeze(); err != nil {
		return ExitUsage, nil, err
	}
	if err := checkFlags(c); err != nil {
		return ExitUsage, nil, err
	}

	cmd, rest := resolve(c, argv)
	l := o.l.With(zap.String("command", cmd.CommandPath()))
	l.Debug("Command resolved", zap.Strings("rest", rest))

	// resolve stops at a word that is no child, so rest[0] is unknown here
	if !cmd.Runnable() && cmd.HasSubCommands() && len(rest) > 0 && !isFlag(rest[0]) {
		return ExitUsage, cmd, &NoSuchCommandError{Command: cmd.CommandPath(), Name: rest[0], Suggestions: suggest(cmd, rest[0])}
	}

	ctx, err := newContext(cmd, l)
	if err != nil {
		return ExitUsage, nil, err
	}
	resetChanged(c.Root())
	if err = ctx.parse(rest); err != nil {
		return ExitUsage, cmd, err
	}

	if ctx.help {
		describe(cmd, o.width).write(o.stdout)
		return ExitOK, cmd, nil
	}

	if !cmd.Runnable() {
		// the command path must precede flags, so a known child after one
		// only earns the help text
		if name := firstArg(ctx.args); name != "" && cmd.lookup(name) == nil && cmd.HasSubCommands() {
			return ExitUsage, cmd, &NoSuchCommandError{Command: cmd.CommandPath(), Name: name, Suggestions: suggest(cmd, name)}
		}
		describe(cmd, o.width).write(o.stdout)
		return ExitHelp, cmd, nil
	}

	l.Debug("Running command", zap.Strings("args", ctx.args))
	code := cmd.Run(ctx.args)
	l.Debug("Command finished", zap.Int("status", code))
	return code, cmd, nil
}

func firstArg(args Arguments) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// resetChanged clears the Changed state of every flag below c.
func resetChanged(c *Command) {
	for _, fs := range []*FlagSet{c.LocalFlags(), c.PersistentFlags()} {
		for _, f := range fs.order {
			f.changed = false
		}
	}
	for _, child := range c.children {
		resetChanged(child)
	}
}
