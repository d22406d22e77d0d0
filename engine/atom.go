package engine

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	atomEmpty       = NewAtom("")
	atomTrue        = NewAtom("true")
	atomFail        = NewAtom("fail")
	atomFalse       = NewAtom("false")
	atomCut         = NewAtom("!")
	atomComma       = NewAtom(",")
	atomSemicolon   = NewAtom(";")
	atomIf          = NewAtom(":-")
	atomThen        = NewAtom("->")
	atomNegation    = NewAtom(`\+`)
	atomEqual       = NewAtom("=")
	atomCall        = NewAtom("call")
	atomCatch       = NewAtom("catch")
	atomThrow       = NewAtom("throw")
	atomColon       = NewAtom(":")
	atomSlash       = NewAtom("/")
	atomMinus       = NewAtom("-")
	atomDot         = NewAtom(".")
	atomNil         = NewAtom("[]")
	atomEmptyBlock  = NewAtom("{}")
	atomUser        = NewAtom("user")
	atomError       = NewAtom("error")
	atomUserInput   = NewAtom("user_input")
	atomUserOutput  = NewAtom("user_output")
	atomHalt        = NewAtom("halt")
	atomProcedure   = NewAtom("procedure")
	atomCallable    = NewAtom("callable")
	atomQuery       = NewAtom("$query")
	atomCallGoal    = NewAtom("$call")
	atomSystemError = NewAtom("system_error")
)

var (
	unquotedAtomPattern     = regexp.MustCompile(`\A[a-z]\w*\z`)
	graphicalAtomPattern    = regexp.MustCompile(`\A[#$&*+\-./:<=>?@^~\\]+\z`)
	quotedAtomEscapePattern = regexp.MustCompile("[[:cntrl:]]|\\\\|'")
)

// Atom is a prolog atom. It is an index into the process-wide constant table, so two atoms are equal iff their names are.
// The zero value is the empty atom ''.
type Atom uint32

// NewAtom interns name and returns the atom.
func NewAtom(name string) Atom {
	return Atom(constants.Intern(atomName(name)))
}

func (a Atom) term()     {}
func (a Atom) constant() {}

// Name returns the name of the atom.
func (a Atom) Name() string {
	n, _ := constants.Object(uint32(a)).(atomName)
	return string(n)
}

// String returns the atom quoted as needed.
func (a Atom) String() string {
	name := a.Name()
	switch {
	case name == "[]", name == "{}", name == "!", name == ";", name == ",":
		if name == "," {
			return "','"
		}
		return name
	case unquotedAtomPattern.MatchString(name), graphicalAtomPattern.MatchString(name):
		return name
	default:
		return quote(name)
	}
}

// Apply returns a Compound which Functor is the Atom and Args are the arguments. If the arguments are empty,
// then returns itself.
func (a Atom) Apply(args ...Term) Term {
	if len(args) == 0 {
		return a
	}
	return &Compound{
		Functor: NewFunctor(a, len(args)),
		Args:    args,
	}
}

func quote(s string) string {
	return fmt.Sprintf("'%s'", quotedAtomEscapePattern.ReplaceAllStringFunc(s, quotedIdentEscape))
}

func quotedIdentEscape(s string) string {
	switch s {
	case "\a":
		return `\a`
	case "\b":
		return `\b`
	case "\f":
		return `\f`
	case "\n":
		return `\n`
	case "\r":
		return `\r`
	case "\t":
		return `\t`
	case "\v":
		return `\v`
	case `\`:
		return `\\`
	case `'`:
		return `\'`
	default:
		var sb strings.Builder
		for _, r := range s {
			_, _ = fmt.Fprintf(&sb, `\x%x\`, r)
		}
		return sb.String()
	}
}
