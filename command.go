package cobalt

import (
	"sort"
	"strings"

	"github.com/google/btree"
	"golang.org/x/xerrors"
)

// Arguments are the positional words left after the command path and the
// flags are consumed, in command line order.
type Arguments []string

// Command is a node of the command tree
type Command struct {
	// Use is the one-line usage. The first word is the name used to invoke
	// the command, the rest is an argument hint shown in help.
	Use string

	// Short is shown in the parent's command list, Long in the command's own help.
	Short string
	Long  string

	// Run is called with the positional arguments when the command is the
	// deepest match. The result is the exit status. Commands without Run
	// only group their children.
	Run func(args Arguments) int

	parent     *Command
	children   []*Command
	index      commands
	local      *FlagSet
	persistent *FlagSet
}

// NewCommand returns an empty command, ready for its fields to be set.
func NewCommand() *Command {
	return &Command{local: NewFlagSet(), persistent: NewFlagSet()}
}

// Name returns the first word of Use.
func (c *Command) Name() string {
	fields := strings.Fields(c.Use)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// hint returns Use without the name.
func (c *Command) hint() string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(c.Use), c.Name()))
}

// Parent returns the command c is attached to, or nil for a root.
func (c *Command) Parent() *Command {
	return c.parent
}

// Root returns the top of the tree c belongs to.
func (c *Command) Root() *Command {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// CommandPath returns the names from the root down to c, space separated.
func (c *Command) CommandPath() string {
	if c.parent == nil {
		return c.Name()
	}
	return c.parent.CommandPath() + " " + c.Name()
}

// Commands returns the children of c in the order they were added.
func (c *Command) Commands() []*Command {
	return append([]*Command(nil), c.children...)
}

// HasSubCommands reports whether c has children.
func (c *Command) HasSubCommands() bool {
	return len(c.children) > 0
}

// Runnable reports whether c has a handler.
func (c *Command) Runnable() bool {
	return c.Run != nil
}

// LocalFlags returns the flags visible only when c itself is executed.
func (c *Command) LocalFlags() *FlagSet {
	if c.local == nil {
		c.local = NewFlagSet()
	}
	return c.local
}

// PersistentFlags returns the flags visible to c and all of its descendants.
func (c *Command) PersistentFlags() *FlagSet {
	if c.persistent == nil {
		c.persistent = NewFlagSet()
	}
	return c.persistent
}

// AddCommand attaches children to c. It fails without attaching anything when
// a child has no name, already has a parent, is an ancestor of c, or shares
// its name with a sibling.
func (c *Command) AddCommand(cmds ...*Command) error {
	seen := make(map[string]bool, len(c.children)+len(cmds))
	for _, sib := range c.children {
		seen[sib.Name()] = true
	}

	for _, cmd := range cmds {
		name := cmd.Name()
		if name == "" {
			return xerrors.Errorf("command added to %q has an empty Use", c.CommandPath())
		}
		if cmd.parent != nil {
			return xerrors.Errorf("command %q already belongs to %q", name, cmd.parent.CommandPath())
		}
		for p := c; p != nil; p = p.parent {
			if p == cmd {
				return xerrors.Errorf("command %q cannot be added below itself", name)
			}
		}
		if seen[name] {
			return &DuplicateCommandError{Parent: c.CommandPath(), Name: name}
		}
		seen[name] = true
	}

	for _, cmd := range cmds {
		cmd.parent = c
		c.children = append(c.children, cmd)
	}
	c.index = commands{}
	return nil
}

// command is the btree entry of a child
type command struct {
	name  string
	order int // the order is the sequence of invoking add command
	cmd   *Command
}

func (c *command) Less(than btree.Item) bool {
	t := than.(*command)
	return strings.Compare(c.name, t.name) < 0
}

type commands struct {
	t *btree.BTree
}

func (c commands) scan(prefix string) []*command {
	var cmds []*command
	if c.t == nil {
		return nil
	}
	begin := &command{name: prefix}
	end := &command{name: prefix + "\xFF"}

	c.t.AscendRange(begin, end, func(i btree.Item) bool {
		cmds = append(cmds, i.(*command))
		return true
	})
	sort.Sort(orderedCommands(cmds))
	return cmds
}

func (c commands) get(name string) *command {
	i := c.t.Get(&command{name: name})
	if i != nil {
		return i.(*command)
	}
	return nil
}

// orderedCommands keep the order of adding a command
type orderedCommands []*command

func (cmds orderedCommands) Len() int {
	return len(cmds)
}
func (cmds orderedCommands) Less(i, j int) bool {
	return cmds[i].order < cmds[j].order
}
func (cmds orderedCommands) Swap(i, j int) {
	cmds[i], cmds[j] = cmds[j], cmds[i]
}

// freeze indexes the children of every command below c by name. Use may have
// been edited after AddCommand, so sibling names are checked again here.
func (c *Command) freeze() error {
	t := btree.New(2)
	for i, child := range c.children {
		e := &command{name: child.Name(), order: i, cmd: child}
		if e.name == "" {
			return xerrors.Errorf("command below %q has an empty Use", c.CommandPath())
		}
		if t.ReplaceOrInsert(e) != nil {
			return &DuplicateCommandError{Parent: c.CommandPath(), Name: e.name}
		}
		if err := child.freeze(); err != nil {
			return err
		}
	}
	c.index = commands{t: t}
	return nil
}

// lookup returns the child named name; the tree must be frozen.
func (c *Command) lookup(name string) *Command {
	if c.index.t == nil {
		return nil
	}
	if e := c.index.get(name); e != nil {
		return e.cmd
	}
	return nil
}
