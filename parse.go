package cobalt

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/google/btree"
	"go.uber.org/zap"
)

// resolve walks down from root while the leading words name children, and
// returns the deepest command reached with the words it did not consume.
// The walk stops at the first flag.
func resolve(root *Command, args []string) (*Command, []string) {
	cmd := root
	for len(args) > 0 {
		if strings.HasPrefix(args[0], "-") {
			break
		}
		child := cmd.lookup(args[0])
		if child == nil {
			break
		}
		cmd = child
		args = args[1:]
	}
	return cmd, args
}

// isFlag reports whether token should be read as a flag. "-" alone is a
// positional, by the usual stdin convention.
func isFlag(token string) bool {
	return len(token) > 1 && token[0] == '-'
}

// parse consumes the flags in tokens and collects the positionals.
//
// Flags and positionals may be interleaved. "--" ends the flags. Combined
// short flags such as -xvf are not supported and fail as unknown flags.
//
// Flags are written to their variables as they are met: when parse fails,
// the flags before the failing token keep their new values.
func (ctx *context) parse(tokens []string) error {
	for _, f := range ctx.long {
		f.changed = false
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			ctx.args = append(ctx.args, tokens[i+1:]...)
			break
		}
		if !isFlag(tok) {
			ctx.args = append(ctx.args, tok)
			continue
		}

		long := strings.HasPrefix(tok, "--")
		name := strings.TrimPrefix(tok[1:], "-")
		name, value, hasValue := strings.Cut(name, "=")
		prefix := "-"
		if long {
			prefix = "--"
		}

		var f *Flag
		if long {
			f = ctx.long[name]
		} else {
			f = ctx.short[name]
		}
		if f == nil {
			if !hasValue && ((long && name == "help") || (!long && name == "h")) {
				ctx.help = true
				continue
			}
			return &UnknownFlagError{Command: ctx.cmd.CommandPath(), Flag: prefix + name}
		}

		if !hasValue {
			switch {
			case f.isBool():
				value = "true"
			case i+1 < len(tokens):
				i++
				value = tokens[i]
			default:
				return &MissingFlagValueError{Command: ctx.cmd.CommandPath(), Flag: prefix + name}
			}
		}

		if err := f.setAs(prefix+name, value); err != nil {
			return err
		}
		ctx.l.Debug("Flag set", zap.String("flag", f.Long), zap.String("value", value))
	}
	return nil
}

// maxSuggestionDistance is the largest edit distance offered as a suggestion.
const maxSuggestionDistance = 2

// suggest returns the children of c whose names start with name or are
// within a small edit distance of it, in the order they were added.
func suggest(c *Command, name string) []string {
	if name == "" || c.index.t == nil {
		return nil
	}

	picked := make(map[string]bool)
	var found orderedCommands
	for _, e := range c.index.scan(name) {
		picked[e.name] = true
		found = append(found, e)
	}

	var near orderedCommands
	c.index.t.Ascend(func(i btree.Item) bool {
		e := i.(*command)
		if !picked[e.name] && levenshtein.Distance(name, e.name, nil) <= maxSuggestionDistance {
			near = append(near, e)
		}
		return true
	})
	sort.Sort(near)

	res := make([]string, 0, len(found)+len(near))
	for _, e := range append(found, near...) {
		res = append(res, e.name)
	}
	return res
}
