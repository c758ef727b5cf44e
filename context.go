package cobalt

import (
	"go.uber.org/zap"
)

// context is one pass over the command line for a resolved command
type context struct {
	cmd   *Command
	args  Arguments
	long  map[string]*Flag
	short map[string]*Flag
	help  bool
	l     *zap.Logger
}

// flagSets returns the sets visible from c: its local flags, its persistent
// flags, then the persistent flags of every ancestor up to the root.
func flagSets(c *Command) []*FlagSet {
	sets := []*FlagSet{c.LocalFlags(), c.PersistentFlags()}
	for p := c.parent; p != nil; p = p.parent {
		sets = append(sets, p.PersistentFlags())
	}
	return sets
}

// newContext merges the flags visible from cmd. A name seen twice is an error.
func newContext(cmd *Command, l *zap.Logger) (*context, error) {
	ctx := &context{
		cmd:   cmd,
		long:  make(map[string]*Flag),
		short: make(map[string]*Flag),
		l:     l,
	}

	for _, fs := range flagSets(cmd) {
		for _, f := range fs.order {
			if _, ok := ctx.long[f.Long]; ok {
				return nil, &FlagRedefinedError{Command: cmd.CommandPath(), Name: "--" + f.Long}
			}
			ctx.long[f.Long] = f
			if f.Short == "" {
				continue
			}
			if _, ok := ctx.short[f.Short]; ok {
				return nil, &FlagRedefinedError{Command: cmd.CommandPath(), Name: "-" + f.Short}
			}
			ctx.short[f.Short] = f
		}
	}
	return ctx, nil
}

// checkFlags verifies the visible flag set of c and every descendant.
func checkFlags(c *Command) error {
	if _, err := newContext(c, zap.NewNop()); err != nil {
		return err
	}
	for _, child := range c.children {
		if err := checkFlags(child); err != nil {
			return err
		}
	}
	return nil
}
