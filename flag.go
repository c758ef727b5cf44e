package cobalt

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/xerrors"
)

// Flag is a named option bound to storage owned by the caller.
//
// The FlagSet keeps a non-owning handle to that storage: the variable passed at
// registration must stay alive for as long as the command tree is executed.
type Flag struct {
	Long     string // without the leading "--"
	Short    string // a single character without the leading "-", may be empty
	Usage    string
	DefValue string // default as text, for help

	rv      reflect.Value // the bound variable, invalid when value is set
	value   Value
	changed bool
}

// Type returns the type tag shown in help.
func (f *Flag) Type() string {
	if f.value != nil {
		return f.value.Type()
	}
	if f.rv.Type() == durationType {
		return "duration"
	}
	if f.rv.Kind() == reflect.Slice {
		return "strings"
	}
	return f.rv.Kind().String()
}

// Changed reports whether the flag was matched by the last parse.
func (f *Flag) Changed() bool {
	return f.changed
}

func (f *Flag) isBool() bool {
	if f.value != nil {
		b, ok := f.value.(boolFlag)
		return ok && b.IsBoolFlag()
	}
	return f.rv.Kind() == reflect.Bool
}

// set converts s and writes it to the bound variable.
func (f *Flag) set(s string) error {
	return f.setAs(f.display(), s)
}

// setAs is set reporting errors against name, the flag as it was typed.
func (f *Flag) setAs(name, s string) error {
	var err error
	if f.value != nil {
		err = f.value.Set(s)
	} else {
		// slices collect every occurrence of one parse, dropping the default
		if f.rv.Kind() == reflect.Slice && !f.changed {
			f.rv.Set(reflect.MakeSlice(f.rv.Type(), 0, 1))
		}
		err = applyValue(f.rv, s)
	}
	if err != nil {
		return &FlagTypeError{Flag: name, Type: f.Type(), Value: s, Err: err}
	}
	f.changed = true
	return nil
}

// display returns the flag as it is written on the command line.
func (f *Flag) display() string {
	return "--" + f.Long
}

// FlagSet is a registry of flags, either local to one command or persistent
// for a command and its descendants.
type FlagSet struct {
	long  map[string]*Flag
	short map[string]*Flag
	order []*Flag
}

// NewFlagSet returns an empty FlagSet
func NewFlagSet() *FlagSet {
	return &FlagSet{long: make(map[string]*Flag), short: make(map[string]*Flag)}
}

// Lookup returns the flag with the given long name, or nil.
func (fs *FlagSet) Lookup(long string) *Flag {
	return fs.long[long]
}

// ShortLookup returns the flag with the given short name, or nil.
func (fs *FlagSet) ShortLookup(short string) *Flag {
	return fs.short[short]
}

// Changed reports whether the flag with the given long name was matched by
// the last parse.
func (fs *FlagSet) Changed(long string) bool {
	f := fs.long[long]
	return f != nil && f.changed
}

// HasFlags reports whether any flag is registered.
func (fs *FlagSet) HasFlags() bool {
	return len(fs.order) > 0
}

// VisitAll calls fn for every flag in registration order.
func (fs *FlagSet) VisitAll(fn func(*Flag)) {
	for _, f := range fs.order {
		fn(f)
	}
}

// BoolVar defines a bool flag. A bare --long or -short sets it to true.
func (fs *FlagSet) BoolVar(p *bool, long, short string, value bool, usage string) {
	Add(fs, p, long, short, value, usage)
}

// StringVar defines a string flag.
func (fs *FlagSet) StringVar(p *string, long, short string, value string, usage string) {
	Add(fs, p, long, short, value, usage)
}

// IntVar defines an int flag.
func (fs *FlagSet) IntVar(p *int, long, short string, value int, usage string) {
	Add(fs, p, long, short, value, usage)
}

// Int64Var defines an int64 flag.
func (fs *FlagSet) Int64Var(p *int64, long, short string, value int64, usage string) {
	Add(fs, p, long, short, value, usage)
}

// UintVar defines a uint flag.
func (fs *FlagSet) UintVar(p *uint, long, short string, value uint, usage string) {
	Add(fs, p, long, short, value, usage)
}

// Uint64Var defines a uint64 flag.
func (fs *FlagSet) Uint64Var(p *uint64, long, short string, value uint64, usage string) {
	Add(fs, p, long, short, value, usage)
}

// Float64Var defines a float64 flag.
func (fs *FlagSet) Float64Var(p *float64, long, short string, value float64, usage string) {
	Add(fs, p, long, short, value, usage)
}

// DurationVar defines a time.Duration flag, parsed with time.ParseDuration.
func (fs *FlagSet) DurationVar(p *time.Duration, long, short string, value time.Duration, usage string) {
	Add(fs, p, long, short, value, usage)
}

// StringSliceVar defines a flag that may be given several times. The first
// occurrence in a parse replaces the default.
func (fs *FlagSet) StringSliceVar(p *[]string, long, short string, value []string, usage string) {
	fs.bind(&Flag{Long: long, Short: short, Usage: usage, rv: reflect.ValueOf(p).Elem()}, func() {
		*p = append([]string(nil), value...)
	})
}

// Var defines a flag with a caller-provided Value. Its current String is the default.
func (fs *FlagSet) Var(v Value, long, short string, usage string) {
	fs.bind(&Flag{Long: long, Short: short, Usage: usage, DefValue: v.String(), value: v}, nil)
}

// Func defines a flag that calls fn with every value given on the command line.
func (fs *FlagSet) Func(long, short string, usage string, fn ValueFunc) {
	fs.Var(&funcValue{fn: fn}, long, short, usage)
}

// Scalar lists the types accepted by Add.
type Scalar interface {
	~bool | ~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Add registers a typed flag on fs bound to p and seeds p with value.
//
//	cobalt.Add(cmd.PersistentFlags(), &times, "times", "t", 1, "The number of times to print the text")
func Add[T Scalar](fs *FlagSet, p *T, long, short string, value T, usage string) {
	fs.bind(&Flag{Long: long, Short: short, Usage: usage, rv: reflect.ValueOf(p).Elem()}, func() {
		*p = value
	})
}

// bind adds f to the set and then calls seed, if any, to write the default.
// Redefining a name in the same set is a programming error and panics, as the
// flag package does, leaving the variable untouched.
func (fs *FlagSet) bind(f *Flag, seed func()) {
	if f.Long == "" || strings.HasPrefix(f.Long, "-") || strings.ContainsAny(f.Long, "= ") {
		panic(fmt.Sprintf("cobalt: invalid flag name %q", f.Long))
	}
	if f.Short != "" && (utf8.RuneCountInString(f.Short) != 1 || f.Short == "-" || f.Short == "=") {
		panic(fmt.Sprintf("cobalt: invalid shorthand %q for flag %q", f.Short, f.Long))
	}
	if _, ok := fs.long[f.Long]; ok {
		panic(&FlagRedefinedError{Name: "--" + f.Long})
	}
	if f.Short != "" {
		if _, ok := fs.short[f.Short]; ok {
			panic(&FlagRedefinedError{Name: "-" + f.Short})
		}
	}
	if seed != nil {
		seed()
	}
	if f.Short != "" {
		fs.short[f.Short] = f
	}
	if f.value == nil {
		f.DefValue = formatValue(f.rv)
	}
	fs.long[f.Long] = f
	fs.order = append(fs.order, f)
}

var durationType = reflect.TypeOf(time.Duration(0))

func formatValue(rv reflect.Value) string {
	if rv.Kind() == reflect.Slice {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = rv.Index(i).String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return fmt.Sprint(rv.Interface())
}

func supported(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.String
	}
	return false
}

func applyValue(v reflect.Value, s string) error {
	if v.Type() == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return xerrors.Errorf("unsupported slice of %s", v.Type().Elem())
		}
		v.Set(reflect.Append(v, reflect.ValueOf(s).Convert(v.Type().Elem())))
	default:
		return xerrors.Errorf("unsupported flag kind %s", v.Kind())
	}
	return nil
}

// tagFlag is a flag declared by a struct tag:
//
//	`cobalt:"--long -s default description"`
//
// "-" in the long, short or default position means none, and '' or "" is an
// empty default.
type tagFlag struct {
	long         string
	short        string
	defaultValue string
	hasDefault   bool
	description  string
}

func parseFlag(tag string) *tagFlag {
	f := &tagFlag{}
	parts := strings.Fields(tag)

	const (
		long = iota
		short
		defaultValue
		description
	)
	state := long
	for i := 0; i < len(parts); i++ {
		p := strings.TrimSuffix(parts[i], ",")
		switch state {
		case long:
			if p != "-" {
				f.long = strings.TrimPrefix(p, "--")
			}
			state = short
		case short:
			if p != "-" {
				f.short = strings.TrimPrefix(p, "-")
			}
			state = defaultValue
		case defaultValue:
			if p != "-" {
				if p == `''` || p == `""` {
					p = ""
				}
				f.defaultValue = p
				f.hasDefault = true
			}
			state = description
		case description:
			f.description = strings.Join(parts[i:], " ")
			return f
		}
	}
	return f
}

// bindStruct registers every tagged field of the struct pointed to by v.
// Fields with `persistent:"true"` go to persistent, the others to local.
// Untagged embedded structs are walked recursively.
func bindStruct(v any, local, persistent *FlagSet) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return bindFields(rv, local, persistent)
}

func bindFields(rv reflect.Value, local, persistent *FlagSet) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		ft := rt.Field(i)
		fv := rv.Field(i)

		tag, ok := ft.Tag.Lookup("cobalt")
		if !ok {
			if ft.Anonymous && fv.Kind() == reflect.Struct {
				if err := bindFields(fv, local, persistent); err != nil {
					return err
				}
			}
			continue
		}
		if !fv.CanSet() {
			return xerrors.Errorf("field %s: flag fields must be exported and reached through a pointer", ft.Name)
		}

		tf := parseFlag(tag)
		if !supported(ft.Type) {
			return xerrors.Errorf("field %s: unsupported flag type %s", ft.Name, ft.Type)
		}
		if tf.long == "" {
			return xerrors.Errorf("field %s: flag tag %q has no long name", ft.Name, tag)
		}
		var seed func()
		if tf.hasDefault {
			def := reflect.New(ft.Type).Elem()
			if err := applyValue(def, tf.defaultValue); err != nil {
				return xerrors.Errorf("field %s: default %q: %w", ft.Name, tf.defaultValue, err)
			}
			seed = func() { fv.Set(def) }
		}

		fs := local
		if ft.Tag.Get("persistent") == "true" {
			fs = persistent
		}
		fs.bind(&Flag{Long: tf.long, Short: tf.short, Usage: tf.description, rv: fv}, seed)
	}
	return nil
}
