// Package operator carries the operator metadata of the language: binding
// power, associativity, unary/binary classification, the operators legal in
// pattern position, and the decoding of numeric and escape literals. The
// tables answer queries; precedence is already resolved in the node
// structure by the parser, so nothing here re-derives tree shape.
package operator

// Assoc is operator associativity.
type Assoc uint8

const (
	Left Assoc = iota
	Right
	None
)

// UnaryPrecedence is the binding power shared by all unary operators except @.
const UnaryPrecedence = 300

// AtPrecedence is the binding power of the @ attribute operator.
const AtPrecedence = 320

// Info describes one operator.
type Info struct {
	// Precedence is the binary binding power (UnaryPrecedence for
	// unary-only operators). Higher binds tighter.
	Precedence int
	Assoc      Assoc
	Unary      bool
	Binary     bool
	// Pattern reports the operator may appear inside a match pattern.
	Pattern bool
}

// The binding powers mirror the reference grammar's declarations, so terms
// quoted from differently-parenthesized sources compare predictably.
var table = map[string]Info{
	"->":   {Precedence: 10, Assoc: Right, Binary: true},
	"<-":   {Precedence: 40, Assoc: Left, Binary: true},
	"\\\\": {Precedence: 40, Assoc: Left, Binary: true, Pattern: true},
	"when": {Precedence: 50, Assoc: Right, Binary: true, Pattern: true},
	"::":   {Precedence: 60, Assoc: Right, Binary: true, Pattern: true},
	"|":    {Precedence: 70, Assoc: Right, Binary: true, Pattern: true},
	"=>":   {Precedence: 80, Assoc: Right, Binary: true, Pattern: true},
	"&":    {Precedence: 90, Assoc: None, Unary: true},
	"=":    {Precedence: 100, Assoc: Right, Binary: true, Pattern: true},

	"||":  {Precedence: 120, Assoc: Left, Binary: true},
	"|||": {Precedence: 120, Assoc: Left, Binary: true},
	"or":  {Precedence: 120, Assoc: Left, Binary: true},

	"&&":  {Precedence: 130, Assoc: Left, Binary: true},
	"&&&": {Precedence: 130, Assoc: Left, Binary: true},
	"and": {Precedence: 130, Assoc: Left, Binary: true},

	"==":  {Precedence: 140, Assoc: Left, Binary: true},
	"!=":  {Precedence: 140, Assoc: Left, Binary: true},
	"=~":  {Precedence: 140, Assoc: Left, Binary: true},
	"===": {Precedence: 140, Assoc: Left, Binary: true},
	"!==": {Precedence: 140, Assoc: Left, Binary: true},

	"<":  {Precedence: 150, Assoc: Left, Binary: true},
	">":  {Precedence: 150, Assoc: Left, Binary: true},
	"<=": {Precedence: 150, Assoc: Left, Binary: true},
	">=": {Precedence: 150, Assoc: Left, Binary: true},

	"|>":  {Precedence: 160, Assoc: Left, Binary: true},
	"<<<": {Precedence: 160, Assoc: Left, Binary: true},
	">>>": {Precedence: 160, Assoc: Left, Binary: true},
	"<<~": {Precedence: 160, Assoc: Left, Binary: true},
	"~>>": {Precedence: 160, Assoc: Left, Binary: true},
	"<~":  {Precedence: 160, Assoc: Left, Binary: true},
	"~>":  {Precedence: 160, Assoc: Left, Binary: true},
	"<~>": {Precedence: 160, Assoc: Left, Binary: true},
	"<|>": {Precedence: 160, Assoc: Left, Binary: true},

	"in":     {Precedence: 170, Assoc: Left, Binary: true},
	"not in": {Precedence: 170, Assoc: Left, Binary: true},

	"^^^": {Precedence: 180, Assoc: Left, Binary: true},

	"..//": {Precedence: 190, Assoc: Right, Binary: true},

	"++":  {Precedence: 200, Assoc: Right, Binary: true, Pattern: true},
	"--":  {Precedence: 200, Assoc: Right, Binary: true},
	"+++": {Precedence: 200, Assoc: Right, Binary: true},
	"---": {Precedence: 200, Assoc: Right, Binary: true},
	"<>":  {Precedence: 200, Assoc: Right, Binary: true, Pattern: true},
	"..":  {Precedence: 200, Assoc: Right, Binary: true, Pattern: true},

	"+": {Precedence: 210, Assoc: Left, Unary: true, Binary: true, Pattern: true},
	"-": {Precedence: 210, Assoc: Left, Unary: true, Binary: true, Pattern: true},

	"*": {Precedence: 220, Assoc: Left, Binary: true},
	"/": {Precedence: 220, Assoc: Left, Binary: true},

	"**": {Precedence: 230, Assoc: Left, Binary: true},

	"!":   {Precedence: UnaryPrecedence, Assoc: None, Unary: true},
	"^":   {Precedence: UnaryPrecedence, Assoc: None, Unary: true, Pattern: true},
	"not": {Precedence: UnaryPrecedence, Assoc: None, Unary: true},
	"~~~": {Precedence: UnaryPrecedence, Assoc: None, Unary: true},

	".": {Precedence: 310, Assoc: Left, Binary: true, Pattern: true},
	"@": {Precedence: AtPrecedence, Assoc: None, Unary: true, Pattern: true},
}

// Lookup returns the metadata for op.
func Lookup(op string) (Info, bool) {
	info, ok := table[op]
	return info, ok
}

// Known reports whether op is an operator of the language.
func Known(op string) bool {
	_, ok := table[op]
	return ok
}

// Precedence returns the binding power of op, or 0 for unknown operators.
func Precedence(op string) int {
	return table[op].Precedence
}

// Associativity returns the associativity of op.
func Associativity(op string) Assoc {
	return table[op].Assoc
}

// IsUnary reports whether op has a unary form.
func IsUnary(op string) bool { return table[op].Unary }

// IsBinary reports whether op has a binary form.
func IsBinary(op string) bool { return table[op].Binary }

// ValidInPattern reports whether op may appear in pattern position. Unknown
// operators are not valid anywhere, so the answer is false.
func ValidInPattern(op string) bool { return table[op].Pattern }
