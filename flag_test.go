package cobalt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSeed(t *testing.T) {
	t.Parallel()

	fs := NewFlagSet()

	times := 42
	fs.IntVar(&times, "times", "t", 1, "")
	assert.Equal(t, 1, times)

	var d time.Duration
	fs.DurationVar(&d, "timeout", "", time.Second, "")
	assert.Equal(t, time.Second, d)

	var tags []string
	fs.StringSliceVar(&tags, "tag", "", []string{"a"}, "")
	assert.Equal(t, []string{"a"}, tags)

	var ratio float32
	Add(fs, &ratio, "ratio", "r", 0.5, "")
	assert.Equal(t, float32(0.5), ratio)

	assert.Equal(t, "1", fs.Lookup("times").DefValue)
	assert.Equal(t, "1s", fs.Lookup("timeout").DefValue)
	assert.Equal(t, "[a]", fs.Lookup("tag").DefValue)
	assert.Same(t, fs.Lookup("times"), fs.ShortLookup("t"))
	assert.Nil(t, fs.Lookup("bogus"))
}

func TestFlagSet(t *testing.T) {
	t.Parallel()

	fs := NewFlagSet()
	var (
		b   bool
		s   string
		i   int
		i8  int8
		u   uint
		u64 uint64
		f   float64
		d   time.Duration
		ss  []string
	)
	fs.BoolVar(&b, "bool", "", false, "")
	fs.StringVar(&s, "string", "", "", "")
	fs.IntVar(&i, "int", "", 0, "")
	Add(fs, &i8, "int8", "", 0, "")
	fs.UintVar(&u, "uint", "", 0, "")
	fs.Uint64Var(&u64, "uint64", "", 0, "")
	fs.Float64Var(&f, "float", "", 0, "")
	fs.DurationVar(&d, "duration", "", 0, "")
	fs.StringSliceVar(&ss, "slice", "", []string{"default"}, "")

	for name, value := range map[string]string{
		"bool":     "true",
		"string":   "text",
		"int":      "-5",
		"int8":     "127",
		"uint":     "7",
		"uint64":   "18446744073709551615",
		"float":    "2.5",
		"duration": "1m30s",
	} {
		require.NoError(t, fs.Lookup(name).set(value), name)
	}
	require.NoError(t, fs.Lookup("slice").set("a"))
	require.NoError(t, fs.Lookup("slice").set("b"))

	assert.True(t, b)
	assert.Equal(t, "text", s)
	assert.Equal(t, -5, i)
	assert.Equal(t, int8(127), i8)
	assert.Equal(t, uint(7), u)
	assert.Equal(t, uint64(18446744073709551615), u64)
	assert.Equal(t, 2.5, f)
	assert.Equal(t, 90*time.Second, d)
	assert.Equal(t, []string{"a", "b"}, ss)
	assert.True(t, fs.Changed("slice"))
}

func TestFlagTypeError(t *testing.T) {
	t.Parallel()

	fs := NewFlagSet()
	var (
		i8 int8
		u  uint
		b  bool
		d  time.Duration
	)
	Add(fs, &i8, "int8", "", 0, "")
	fs.UintVar(&u, "uint", "", 0, "")
	fs.BoolVar(&b, "bool", "", false, "")
	fs.DurationVar(&d, "duration", "", 0, "")

	for name, value := range map[string]string{
		"int8":     "128",
		"uint":     "-1",
		"bool":     "maybe",
		"duration": "soon",
	} {
		err := fs.Lookup(name).set(value)
		var e *FlagTypeError
		require.ErrorAs(t, err, &e, name)
		assert.Equal(t, "--"+name, e.Flag)
		assert.Equal(t, value, e.Value)
		assert.NotNil(t, e.Err)
		assert.False(t, fs.Changed(name))
	}
}

func TestFlagRedefined(t *testing.T) {
	t.Parallel()

	fs := NewFlagSet()
	fs.IntVar(new(int), "times", "t", 1, "")

	assert.PanicsWithError(t, "flag redefined: --times", func() {
		fs.StringVar(new(string), "times", "", "", "")
	})
	assert.PanicsWithError(t, "flag redefined: -t", func() {
		fs.StringVar(new(string), "text", "t", "", "")
	})
	assert.Panics(t, func() { fs.BoolVar(new(bool), "", "x", false, "") })
	assert.Panics(t, func() { fs.BoolVar(new(bool), "x", "xy", false, "") })
	assert.Panics(t, func() { fs.BoolVar(new(bool), "a=b", "", false, "") })
}

// a rejected definition leaves the caller's variable alone
func TestFlagRedefinedKeepsValue(t *testing.T) {
	t.Parallel()

	fs := NewFlagSet()
	fs.IntVar(new(int), "times", "t", 1, "")

	n := 42
	assert.Panics(t, func() { fs.IntVar(&n, "times", "", 7, "") })
	assert.Equal(t, 42, n)

	words := []string{"keep"}
	assert.Panics(t, func() { fs.StringSliceVar(&words, "text", "t", []string{"drop"}, "") })
	assert.Equal(t, []string{"keep"}, words)

	s := "keep"
	assert.Panics(t, func() { Add(fs, &s, "bad name", "", "drop", "") })
	assert.Equal(t, "keep", s)
	assert.Nil(t, fs.Lookup("text"))
}

type level int

func (l *level) String() string {
	return strings.Repeat("*", int(*l))
}

func (l *level) Set(s string) error {
	*l = level(len(s))
	return nil
}

func (l *level) Type() string {
	return "level"
}

func TestFlagValue(t *testing.T) {
	t.Parallel()

	fs := NewFlagSet()
	l := level(2)
	fs.Var(&l, "level", "l", "")

	f := fs.Lookup("level")
	assert.Equal(t, "**", f.DefValue)
	assert.Equal(t, "level", f.Type())
	assert.False(t, f.isBool())

	require.NoError(t, f.set("xxxx"))
	assert.Equal(t, level(4), l)

	var got []string
	fs.Func("include", "I", "", func(s string) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, fs.Lookup("include").set("a"))
	require.NoError(t, fs.Lookup("include").set("b"))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, "b", fs.Lookup("include").value.String())
}

func TestParseFlagTag(t *testing.T) {
	t.Parallel()

	for tag, expected := range map[string]tagFlag{
		"--name -n world name to greet": {
			long: "name", short: "n", defaultValue: "world", hasDefault: true, description: "name to greet",
		},
		"--name, -n, world, name, to greet": {
			long: "name", short: "n", defaultValue: "world", hasDefault: true, description: "name, to greet",
		},
		"--loud - - shout": {
			long: "loud", description: "shout",
		},
		`--prefix - '' text before`: {
			long: "prefix", hasDefault: true, description: "text before",
		},
		"--bare": {
			long: "bare",
		},
	} {
		assert.Equal(t, expected, *parseFlag(tag), tag)
	}
}

type tagged struct {
	Name    string `cobalt:"--name -n world name to greet"`
	Loud    bool   `cobalt:"--loud - - shout"`
	Level   int    `cobalt:"--level - 3 verbosity" persistent:"true"`
	Ignored string
	embedded
}

type embedded struct {
	Tags []string `cobalt:"--tag - - tags"`
}

func TestBindStruct(t *testing.T) {
	t.Parallel()

	local, persistent := NewFlagSet(), NewFlagSet()
	v := new(tagged)
	require.NoError(t, bindStruct(v, local, persistent))

	assert.Equal(t, "world", v.Name)
	assert.Equal(t, 3, v.Level)

	require.NotNil(t, local.Lookup("name"))
	assert.Equal(t, "name to greet", local.Lookup("name").Usage)
	assert.Same(t, local.Lookup("name"), local.ShortLookup("n"))
	require.NotNil(t, local.Lookup("loud"))
	assert.Equal(t, "", local.Lookup("loud").Short)
	require.NotNil(t, local.Lookup("tag"))
	assert.Nil(t, local.Lookup("level"))
	require.NotNil(t, persistent.Lookup("level"))

	require.NoError(t, local.Lookup("tag").set("x"))
	assert.Equal(t, []string{"x"}, v.Tags)
}

func TestBindStructErrors(t *testing.T) {
	t.Parallel()

	var badDefault struct {
		N int `cobalt:"--n - ten number"`
	}
	err := bindStruct(&badDefault, NewFlagSet(), NewFlagSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field N")

	var badType struct {
		M map[string]string `cobalt:"--m - - map"`
	}
	err = bindStruct(&badType, NewFlagSet(), NewFlagSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported flag type")

	var noName struct {
		S string `cobalt:"- -s x short only"`
	}
	err = bindStruct(&noName, NewFlagSet(), NewFlagSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no long name")
}
