package expr

import (
	"testing"
	"time"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

var sampleEmail = domain.Email{
	Sender:  "system.cdc@example.com",
	Subject: "MX Alert: Server Down",
	Body:    "Number: INC0012345\r\nUser: ops\r\n",
}

func TestEval_HelperFunctions(t *testing.T) {
	e := New(0)
	cases := []struct {
		name string
		expr string
		want bool
	}{
		{"contains match", `contains(subject, "alert")`, true},
		{"contains case-insensitive", `contains(subject, "MX ALERT")`, true},
		{"contains miss", `contains(subject, "payroll")`, false},
		{"equals fold", `equals(sender, "SYSTEM.CDC@EXAMPLE.COM")`, true},
		{"equals miss", `equals(sender, "other@example.com")`, false},
		{"startsWith", `startsWith(subject, "mx ")`, true},
		{"endsWith", `endsWith(subject, "down")`, true},
		{"snake alias", `not_empty(body)`, true},
		{"lowercase alias", `startswith(subject, "mx")`, true},
		{"empty", `empty(subject)`, false},
		{"notEmpty", `notEmpty(subject)`, true},
		{"and", `and(contains(subject, "mx"), contains(body, "inc00"))`, true},
		{"and short", `and(contains(subject, "mx"), contains(body, "nope"))`, false},
		{"or", `or(contains(subject, "nope"), endsWith(subject, "down"))`, true},
		{"not", `not(contains(subject, "nope"))`, true},
		{"nested", `and(or(equals(subject, "x"), contains(subject, "alert")), not(empty(body)))`, true},
		{"length truthy", `length(subject)`, true},
		{"boolean literal", `and(true, contains(subject, "mx"))`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Eval(tc.expr, sampleEmail); got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEval_RejectsOutsideReferences(t *testing.T) {
	e := New(0)
	exprs := []string{
		`process.exit(1)`,
		`require("fs")`,
		`eval("1")`,
		`this.constructor.constructor("return 1")()`,
		`contains(subject, "x") || globalThis`,
		`Function("return true")()`,
		`while(true){}`, // "while" is not in the library
		`recipient`,     // unbound identifier
	}
	for _, expr := range exprs {
		if e.Eval(expr, sampleEmail) {
			t.Fatalf("Eval(%q) should be rejected as a non-match", expr)
		}
	}
}

func TestEval_IdentifiersInsideStringsAreAllowed(t *testing.T) {
	e := New(0)
	// "window" appears only inside a string literal, not as a reference.
	if !e.Eval(`contains("window Alert", "alert")`, sampleEmail) {
		t.Fatal("identifiers inside string literals must not trip the allowlist")
	}
}

func TestEval_MalformedIsNonMatch(t *testing.T) {
	e := New(0)
	for _, expr := range []string{"", "   ", `contains(subject`, `and(,)`} {
		if e.Eval(expr, sampleEmail) {
			t.Fatalf("Eval(%q) should be false", expr)
		}
	}
}

func TestEval_TimeoutInterrupts(t *testing.T) {
	e := New(10 * time.Millisecond)
	// Deep recursion through the allowed library still terminates via the
	// interrupt timer; the allowlist blocks loops, so force work with a
	// pathological nesting depth instead.
	expr := "not("
	for i := 0; i < 5000; i++ {
		expr += "not("
	}
	expr += "true"
	for i := 0; i < 5001; i++ {
		expr += ")"
	}
	done := make(chan bool, 1)
	go func() { done <- e.Eval(expr, sampleEmail) }()
	select {
	case <-done:
		// Either parsed-and-ran or was interrupted; both are fine, the
		// point is that it returned.
	case <-time.After(5 * time.Second):
		t.Fatal("evaluation did not return")
	}
}

func TestLooksLikeExpression(t *testing.T) {
	e := New(0)
	cases := []struct {
		in   string
		want bool
	}{
		{`contains(subject, "MX Alert")`, true},
		{`and(equals(sender, "a"), not(empty(body)))`, true},
		// Other casings are not in the helper library, so they must fall
		// back to substring matching rather than becoming expressions the
		// allowlist would then reject outright.
		{`CONTAINS(subject, "x")`, false},
		{`Contains(subject, "x")`, false},
		{"MX Alert", false},
		{"urgent", false},
		{`"contains(x)"`, false}, // call only inside a string literal
		{"", false},
	}
	for _, tc := range cases {
		if got := e.LooksLikeExpression(tc.in); got != tc.want {
			t.Fatalf("LooksLikeExpression(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
