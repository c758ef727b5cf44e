package cobalt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// desc describes a command for help
type desc struct {
	usage       []string
	title       string
	description string
	commands    string
	flags       string
	globals     string
}

func describe(c *Command, width int) *desc {
	d := &desc{
		title:       strings.TrimSpace(c.Short),
		description: strings.TrimSpace(c.Long),
	}
	if width > 0 && d.description != "" {
		d.description = wordwrap.String(d.description, width)
	}

	path := c.CommandPath()
	if c.Runnable() {
		line := path
		if hint := c.hint(); hint != "" {
			line += " " + hint
		}
		d.usage = append(d.usage, line+" [flags]")
	}
	if c.HasSubCommands() {
		d.usage = append(d.usage, path+" [command]")
	}
	if len(d.usage) == 0 {
		d.usage = append(d.usage, path)
	}

	if c.HasSubCommands() {
		var b bytes.Buffer
		tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
		for _, child := range c.children {
			summary, _, _ := strings.Cut(strings.TrimSpace(child.Short), "\n")
			fmt.Fprintf(tw, "%s\t%s\n", child.Name(), summary)
		}
		tw.Flush()
		d.commands = b.String()
	}

	var own []*Flag
	own = append(own, c.LocalFlags().order...)
	own = append(own, c.PersistentFlags().order...)
	d.flags = flagTable(own)

	var inherited []*Flag
	for p := c.parent; p != nil; p = p.parent {
		inherited = append(inherited, p.PersistentFlags().order...)
	}
	d.globals = flagTable(inherited)

	return d
}

// flagTable renders one row per flag:
//
//	--times, -t int   The number of times to print the text (default 1)
func flagTable(flags []*Flag) string {
	if len(flags) == 0 {
		return ""
	}

	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	for _, f := range flags {
		name := "--" + f.Long
		if f.Short != "" {
			name += ", -" + f.Short
		}
		if !f.isBool() {
			name += " " + f.Type()
		}

		usage := f.Usage
		if showDefault(f) {
			usage = strings.TrimSpace(usage + fmt.Sprintf(" (default %s)", f.DefValue))
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, usage)
	}
	tw.Flush()
	return b.String()
}

// showDefault hides zero defaults that say nothing: empty text, false and
// empty lists.
func showDefault(f *Flag) bool {
	switch f.DefValue {
	case "", "false", "[]":
		return false
	}
	return true
}

func (d *desc) write(w io.Writer) {
	var b bytes.Buffer

	b.WriteString("Usage:\n")
	for _, line := range d.usage {
		b.WriteString(indent.String(line, 2) + "\n")
	}
	if d.title != "" {
		fmt.Fprintf(&b, "\n%s\n", d.title)
	}
	if d.description != "" && d.description != d.title {
		fmt.Fprintf(&b, "\n%s\n", d.description)
	}
	if d.commands != "" {
		fmt.Fprintf(&b, "\nAvailable Commands:\n%s", indent.String(d.commands, 2))
	}
	if d.flags != "" {
		fmt.Fprintf(&b, "\nFlags:\n%s", indent.String(d.flags, 2))
	}
	if d.globals != "" {
		fmt.Fprintf(&b, "\nGlobal Flags:\n%s", indent.String(d.globals, 2))
	}

	w.Write(b.Bytes())
}

// Help returns the help text of c: usage, short and long descriptions,
// subcommands and every flag visible from c.
func (c *Command) Help() string {
	var b bytes.Buffer
	describe(c, defaultHelpWidth).write(&b)
	return b.String()
}
