package cobalt

// Value is the interface to a caller-defined flag type. Set is called once per
// occurrence on the command line; String renders the default in help.
type Value interface {
	String() string
	Set(string) error
	Type() string
}

// boolFlag is implemented by Values that may appear without an argument.
type boolFlag interface {
	IsBoolFlag() bool
}

// ValueFunc turns a func into a Value that remembers the last text it accepted
type ValueFunc func(s string) error

type funcValue struct {
	fn   ValueFunc
	last string
}

func (f *funcValue) Set(s string) error {
	if err := f.fn(s); err != nil {
		return err
	}
	f.last = s
	return nil
}

func (f *funcValue) String() string {
	return f.last
}

func (f *funcValue) Type() string {
	return "value"
}
