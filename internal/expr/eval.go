// Package expr evaluates filter expressions against a single email record.
//
// The language is deliberately tiny: one function-call tree over a closed
// library of predicate/string helpers (equals, contains, startsWith,
// endsWith, length, empty, notEmpty, and, or, not) and three bound
// identifiers (sender, subject, body). Expressions run inside a fresh goja
// runtime per evaluation with only that surface injected; an identifier
// allowlist is enforced before execution, so references to anything else —
// JavaScript built-ins included — are rejected as a non-match without ever
// reaching the runtime. Execution is bounded by an interrupt timer.
//
// Anything that fails — parse error, rejected identifier, timeout — is a
// non-match, never an error surfaced to the engine (failure boundary is
// the individual filter).
package expr

import (
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// defaultTimeout bounds a single expression evaluation. Expressions are a
// handful of string comparisons; anything hitting this is runaway input.
const defaultTimeout = 250 * time.Millisecond

// functionNames is the closed helper library. Lowercase and snake_case
// aliases are accepted for compatibility with filters written against the
// original deployment's data files.
var functionNames = []string{
	"equals",
	"contains",
	"startsWith", "startswith",
	"endsWith", "endswith",
	"length",
	"empty",
	"notEmpty", "not_empty",
	"and", "or", "not",
}

// boundIdentifiers are the email fields visible to expressions.
var boundIdentifiers = []string{"sender", "subject", "body"}

var (
	identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	// stringLitRe strips quoted literals before the identifier scan so that
	// words inside match strings are not mistaken for references.
	stringLitRe = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`)
	// callRe is case-sensitive on purpose: only the exact spellings in
	// functionNames pass the identifier allowlist, so classifying other
	// casings (e.g. "Contains(") as expressions would turn them into hard
	// non-matches instead of falling back to substring containment.
	callRe = regexp.MustCompile(`\b(` + strings.Join(functionNames, "|") + `)\s*\(`)

	allowedIdents = func() map[string]struct{} {
		m := make(map[string]struct{})
		for _, n := range functionNames {
			m[n] = struct{}{}
		}
		for _, n := range boundIdentifiers {
			m[n] = struct{}{}
		}
		// Boolean literals are legitimate leaves of a call tree.
		m["true"] = struct{}{}
		m["false"] = struct{}{}
		return m
	}()
)

// Evaluator runs filter expressions. The zero value is not usable; use New.
type Evaluator struct {
	timeout time.Duration
}

// New returns an Evaluator with the given per-expression timeout
// (defaultTimeout when zero or negative).
func New(timeout time.Duration) *Evaluator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Evaluator{timeout: timeout}
}

// LooksLikeExpression reports whether s contains a recognized function
// call. Filter values without one are outside the expression grammar; the
// engine degrades those to plain substring containment.
func (e *Evaluator) LooksLikeExpression(s string) bool {
	return callRe.MatchString(stringLitRe.ReplaceAllString(s, ""))
}

// Eval evaluates expression against the email's sender/subject/body and
// returns whether it matched. The email record is read, never mutated.
func (e *Evaluator) Eval(expression string, email domain.Email) bool {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false
	}
	if bad, ok := disallowedIdentifier(expression); !ok {
		log.Debug().Str("identifier", bad).Str("expression", expression).
			Msg("expr: reference outside sandbox, treating as non-match")
		return false
	}

	vm := goja.New()
	bindHelpers(vm)
	vm.Set("sender", email.Sender)
	vm.Set("subject", email.Subject)
	vm.Set("body", email.Body)

	timer := time.AfterFunc(e.timeout, func() {
		vm.Interrupt("expression timeout")
	})
	defer timer.Stop()

	v, err := vm.RunString(expression)
	if err != nil {
		log.Debug().Err(err).Str("expression", expression).
			Msg("expr: evaluation failed, treating as non-match")
		return false
	}
	return v.ToBoolean()
}

// disallowedIdentifier scans expression (string literals removed) and
// returns the first identifier outside the allowed set, with ok=false.
func disallowedIdentifier(expression string) (string, bool) {
	stripped := stringLitRe.ReplaceAllString(expression, `""`)
	for _, ident := range identRe.FindAllString(stripped, -1) {
		if _, ok := allowedIdents[ident]; !ok {
			return ident, false
		}
	}
	return "", true
}

// bindHelpers injects the closed function library. All string semantics are
// case-insensitive, matching the original rule set's behavior.
func bindHelpers(vm *goja.Runtime) {
	equals := func(a, b string) bool { return strings.EqualFold(a, b) }
	contains := func(text, search string) bool {
		return strings.Contains(strings.ToLower(text), strings.ToLower(search))
	}
	startsWith := func(text, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(text), strings.ToLower(prefix))
	}
	endsWith := func(text, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(text), strings.ToLower(suffix))
	}
	length := func(s string) int { return len([]rune(s)) }
	empty := func(s string) bool { return strings.TrimSpace(s) == "" }
	notEmpty := func(s string) bool { return strings.TrimSpace(s) != "" }
	and := func(conds ...bool) bool {
		for _, c := range conds {
			if !c {
				return false
			}
		}
		return true
	}
	or := func(conds ...bool) bool {
		for _, c := range conds {
			if c {
				return true
			}
		}
		return false
	}
	not := func(c bool) bool { return !c }

	vm.Set("equals", equals)
	vm.Set("contains", contains)
	vm.Set("startsWith", startsWith)
	vm.Set("startswith", startsWith)
	vm.Set("endsWith", endsWith)
	vm.Set("endswith", endsWith)
	vm.Set("length", length)
	vm.Set("empty", empty)
	vm.Set("notEmpty", notEmpty)
	vm.Set("not_empty", notEmpty)
	vm.Set("and", and)
	vm.Set("or", or)
	vm.Set("not", not)
}
