package query

import (
	"regexp"
	"strings"
)

// Operator tokens.
const (
	OpAnd    = "&&"
	OpOr     = "||"
	OpNot    = "!"
	OpLParen = "("
	OpRParen = ")"
)

var operatorRe = regexp.MustCompile(`(&&|\|\||!|\(|\))`)

var precedence = map[string]int{
	OpNot: 3,
	OpAnd: 2,
	OpOr:  1,
}

func isOperator(tok string) bool {
	switch tok {
	case OpAnd, OpOr, OpNot, OpLParen, OpRParen:
		return true
	}
	return false
}

// Tokenize splits a query into operand and operator tokens and inserts an
// implicit "&&" between adjacent terms that lack a connective.
func Tokenize(query string) []string {
	raw := strings.Fields(operatorRe.ReplaceAllString(query, " $1 "))
	tokens := make([]string, 0, len(raw)*2)
	for i, tok := range raw {
		if i > 0 && needsImplicitAnd(raw[i-1], tok) {
			tokens = append(tokens, OpAnd)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func needsImplicitAnd(left, right string) bool {
	switch left {
	case OpAnd, OpOr, OpLParen, OpNot:
		return false
	}
	switch right {
	case OpAnd, OpOr, OpRParen:
		return false
	}
	return true
}

// ToPostfix reorders infix tokens into postfix with the shunting-yard
// algorithm. Unbalanced parentheses are dropped.
func ToPostfix(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	var ops []string
	for _, tok := range tokens {
		switch tok {
		case OpLParen:
			ops = append(ops, tok)
		case OpRParen:
			for len(ops) > 0 && ops[len(ops)-1] != OpLParen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) > 0 {
				ops = ops[:len(ops)-1]
			}
		case OpAnd, OpOr, OpNot:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top == OpLParen || !yields(tok, top) {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		default:
			out = append(out, tok)
		}
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i] != OpLParen {
			out = append(out, ops[i])
		}
	}
	return out
}

// yields reports whether the incoming operator must let top be emitted first.
func yields(incoming, top string) bool {
	if incoming == OpNot {
		return precedence[top] > precedence[incoming]
	}
	return precedence[top] >= precedence[incoming]
}

// EvalPostfix evaluates postfix tokens against message. Operands match as
// case-insensitive substrings. Malformed expressions evaluate to false.
func EvalPostfix(postfix []string, message string) bool {
	lower := strings.ToLower(message)
	stack := make([]bool, 0, len(postfix))
	for _, tok := range postfix {
		switch tok {
		case OpAnd, OpOr:
			if len(stack) < 2 {
				return false
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]
			if tok == OpAnd {
				stack = append(stack, a && b)
			} else {
				stack = append(stack, a || b)
			}
		case OpNot:
			if len(stack) < 1 {
				return false
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		default:
			stack = append(stack, strings.Contains(lower, strings.ToLower(tok)))
		}
	}
	return len(stack) == 1 && stack[0]
}

// Evaluate reports whether message satisfies query. A blank query, or one
// made only of operators, matches everything.
func Evaluate(query, message string) bool {
	return Compile(query).Match(message)
}

// Expr is a compiled query.
type Expr struct {
	postfix []string
	all     bool
}

// Compile tokenizes query once so it can be matched against many messages.
func Compile(query string) Expr {
	tokens := Tokenize(query)
	if !hasOperand(tokens) {
		return Expr{all: true}
	}
	return Expr{postfix: ToPostfix(tokens)}
}

// Match evaluates the compiled query against message.
func (e Expr) Match(message string) bool {
	if e.all {
		return true
	}
	return EvalPostfix(e.postfix, message)
}

// MatchAll reports whether the expression accepts every message.
func (e Expr) MatchAll() bool {
	return e.all
}

func hasOperand(tokens []string) bool {
	for _, tok := range tokens {
		if !isOperator(tok) {
			return true
		}
	}
	return false
}

// ExtractKeywords returns the operand terms of query, for highlighting.
func ExtractKeywords(query string) []string {
	return strings.Fields(operatorRe.ReplaceAllString(query, " "))
}
