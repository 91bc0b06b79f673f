package runner

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shibukawa/parsec/calc"
	pc "github.com/shibukawa/parsec/combinator"
	"github.com/shibukawa/parsec/cursor"
)

// Sentinel errors
var (
	ErrUnknownParser   = errors.New("unknown parser")
	ErrInvalidArgument = errors.New("invalid parser argument")
)

// Entry is a named parser that can be run against raw input.
type Entry struct {
	Name        string
	Description string

	// Arithmetic entries consume a whole arithmetic expression and produce
	// an int, so their input can be cross-checked.
	Arithmetic bool

	run func(input string, options ...cursor.Options) (any, error)
}

// Run parses input and returns the parser's value.
func (e Entry) Run(input string, options ...cursor.Options) (any, error) {
	return e.run(input, options...)
}

// Render formats a parser value the way case files spell expectations.
func Render(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case rune:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case struct{}:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// prefix builds an entry that accepts trailing input.
func prefix[T any](name, description string, p pc.Parser[T]) Entry {
	return Entry{
		Name:        name,
		Description: description,
		run: func(input string, options ...cursor.Options) (any, error) {
			return pc.Parse(pc.Trace(name, p), input, options...)
		},
	}
}

// complete builds an arithmetic entry that must consume all input.
func complete(name, description string, p pc.Parser[int]) Entry {
	return Entry{
		Name:        name,
		Description: description,
		Arithmetic:  true,
		run: func(input string, options ...cursor.Options) (any, error) {
			return pc.ParseAll(p, input, options...)
		},
	}
}

// Registry maps parser names to entries.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns a registry holding the calculator productions, the
// character classes and the demonstration parsers test1 to test13.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry)}

	r.Register(complete("expr", "arithmetic expression", calc.Expr()))
	r.Register(complete("term", "product or quotient of factors", calc.Term()))
	r.Register(complete("factor", "number or parenthesized expression", calc.Factor()))
	r.Register(complete("number", "unsigned decimal integer", calc.Number()))

	r.Register(prefix("anychar", "any character", pc.AnyChar()))
	r.Register(prefix("digit", "ASCII digit", pc.Digit()))
	r.Register(prefix("upper", "ASCII upper-case letter", pc.Upper()))
	r.Register(prefix("lower", "ASCII lower-case letter", pc.Lower()))
	r.Register(prefix("alpha", "ASCII letter", pc.Alpha()))
	r.Register(prefix("alphanum", "ASCII letter or digit", pc.AlphaNum()))
	r.Register(prefix("letter", "ASCII letter or underscore", pc.Letter()))
	r.Register(prefix("space", "space or tab", pc.Space()))

	for _, e := range demoParsers() {
		r.Register(e)
	}

	return r
}

// Register adds or replaces an entry.
func (r *Registry) Register(e Entry) {
	r.entries[e.Name] = e
}

// Lookup finds an entry by name. Besides registered names it understands
// "char:<c>" and "string:<s>", which build Char and String parsers.
func (r *Registry) Lookup(name string) (Entry, error) {
	if e, ok := r.entries[name]; ok {
		return e, nil
	}

	kind, arg, found := strings.Cut(name, ":")
	if !found {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownParser, name)
	}

	if err := checkArgument(kind, arg); err != nil {
		return Entry{}, err
	}

	if kind == "char" {
		ch, _ := utf8.DecodeRuneInString(arg)
		return prefix(name, fmt.Sprintf("the character %q", ch), pc.Char(ch)), nil
	}

	return prefix(name, fmt.Sprintf("the literal %q", arg), pc.String(arg)), nil
}

// checkArgument validates the argument of a "kind:arg" parser name.
func checkArgument(kind, arg string) error {
	switch kind {
	case "char":
		if utf8.RuneCountInString(arg) != 1 {
			return fmt.Errorf("%w: char needs exactly one character: %q", ErrInvalidArgument, arg)
		}
	case "string":
		if arg == "" {
			return fmt.Errorf("%w: string needs a literal", ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: %s:%s", ErrUnknownParser, kind, arg)
	}

	return nil
}

// builtinNames are the entries NewRegistry registers.
var builtinNames = []string{
	"expr", "term", "factor", "number",
	"anychar", "digit", "upper", "lower", "alpha", "alphanum", "letter", "space",
	"test1", "test2", "test3", "test4", "test5", "test6", "test7",
	"test8", "test9", "test10", "test11", "test12", "test13",
}

// KnownParser reports whether a default registry resolves name, without
// building one.
func KnownParser(name string) bool {
	if slices.Contains(builtinNames, name) {
		return true
	}

	kind, arg, found := strings.Cut(name, ":")

	return found && checkArgument(kind, arg) == nil
}

// Names lists registered entries in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Has reports whether name resolves to a parser.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}
