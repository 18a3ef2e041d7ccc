// Package parser implements the textual rule grammar: a precedence-
// climbing recursive-descent parser producing expr.Expr.
package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

// Parser parses rule-language source text into an expr.Expr.
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
	err     error
}

// NewParser creates a Parser over src.
func NewParser(src string) *Parser {
	p := &Parser{lexer: NewLexer(src)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.current = p.peek
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.err = p.wrapLexError(err)
		return
	}
	p.peek = tok
}

func (p *Parser) wrapLexError(err error) error {
	if le, ok := err.(*lexError); ok {
		return &errs.ParseError{Detail: le.detail, Position: errs.Position(le.pos)}
	}
	return &errs.ParseError{Detail: err.Error()}
}

func (p *Parser) fail(detail string) (expr.Expr, error) {
	if p.err != nil {
		return expr.Expr{}, p.err
	}
	return expr.Expr{}, &errs.ParseError{Detail: detail, Position: errs.Position(p.current.Position)}
}

func (p *Parser) expect(t TokenType, what string) error {
	if p.current.Type != t {
		return &errs.ParseError{Detail: "expected " + what, Position: errs.Position(p.current.Position)}
	}
	return nil
}

// ParseText parses a full expression and requires the input be fully
// consumed (trailing garbage is a parse error).
func ParseText(src string) (expr.Expr, error) {
	p := NewParser(src)
	e, err := p.parseExpr()
	if err != nil {
		return expr.Expr{}, err
	}
	if p.err != nil {
		return expr.Expr{}, p.err
	}
	if p.current.Type != TOKEN_EOF {
		return expr.Expr{}, &errs.ParseError{Detail: "unexpected trailing input", Position: errs.Position(p.current.Position)}
	}
	return e, nil
}

// ParseSymbols parses a `{ name1: expr, name2: expr, ... }` symbols file
// into a name->Expr mapping.
func ParseSymbols(src string) (map[string]expr.Expr, error) {
	p := NewParser(src)
	if err := p.expect(TOKEN_LBRACE, "'{'"); err != nil {
		return nil, err
	}
	p.advance()
	out := map[string]expr.Expr{}
	for p.current.Type != TOKEN_RBRACE {
		if p.current.Type != TOKEN_IDENT {
			return nil, p.err2("expected symbol name")
		}
		name := p.current.Value
		p.advance()
		if err := p.expect(TOKEN_COLON, "':'"); err != nil {
			return nil, err
		}
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out[name] = e
		if p.current.Type == TOKEN_COMMA {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(TOKEN_RBRACE, "'}'"); err != nil {
		return nil, err
	}
	p.advance()
	if p.current.Type != TOKEN_EOF {
		return nil, p.err2("unexpected trailing input")
	}
	return out, nil
}

func (p *Parser) err2(detail string) error {
	if p.err != nil {
		return p.err
	}
	return &errs.ParseError{Detail: detail, Position: errs.Position(p.current.Position)}
}

// parseExpr is the grammar's entry point: or_expr.
func (p *Parser) parseExpr() (expr.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (expr.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return expr.Expr{}, err
		}
		left = expr.Or(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (expr.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_AND {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return expr.Expr{}, err
		}
		left = expr.And(left, right)
	}
	return left, nil
}

func (p *Parser) parseEquality() (expr.Expr, error) {
	left, err := p.parseOrdering()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_EQ || p.current.Type == TOKEN_NE {
		op := p.current.Type
		p.advance()
		right, err := p.parseOrdering()
		if err != nil {
			return expr.Expr{}, err
		}
		if op == TOKEN_EQ {
			left = expr.Equals(left, right)
		} else {
			left = expr.NotEquals(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseOrdering() (expr.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_LT || p.current.Type == TOKEN_LE || p.current.Type == TOKEN_GT || p.current.Type == TOKEN_GE {
		op := p.current.Type
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return expr.Expr{}, err
		}
		switch op {
		case TOKEN_LT:
			left = expr.LessThan(left, right)
		case TOKEN_LE:
			left = expr.LessThanEquals(left, right)
		case TOKEN_GT:
			left = expr.GreaterThan(left, right)
		case TOKEN_GE:
			left = expr.GreaterThanEquals(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseBitOr() (expr.Expr, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_PIPE || p.current.Type == TOKEN_CARET {
		op := p.current.Type
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return expr.Expr{}, err
		}
		if op == TOKEN_PIPE {
			left = expr.BitOr(left, right)
		} else {
			left = expr.BitXor(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (expr.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_AMP {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expr{}, err
		}
		left = expr.BitAnd(left, right)
	}
	return left, nil
}

func (p *Parser) parseAdditive() (expr.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_PLUS || p.current.Type == TOKEN_MINUS {
		op := p.current.Type
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return expr.Expr{}, err
		}
		if op == TOKEN_PLUS {
			left = expr.Add(left, right)
		} else {
			left = expr.Sub(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (expr.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return expr.Expr{}, err
	}
	for p.current.Type == TOKEN_STAR || p.current.Type == TOKEN_SLASH || p.current.Type == TOKEN_PERCENT {
		op := p.current.Type
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return expr.Expr{}, err
		}
		switch op {
		case TOKEN_STAR:
			left = expr.Mult(left, right)
		case TOKEN_SLASH:
			left = expr.Div(left, right)
		case TOKEN_PERCENT:
			left = expr.Rem(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (expr.Expr, error) {
	switch p.current.Type {
	case TOKEN_BANG:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return expr.Expr{}, err
		}
		return expr.Not(operand), nil
	case TOKEN_MINUS:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return expr.Expr{}, err
		}
		return expr.Neg(operand), nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (expr.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return expr.Expr{}, err
	}
	for {
		switch p.current.Type {
		case TOKEN_DOT:
			p.advance()
			if p.current.Type != TOKEN_IDENT {
				return p.fail("expected field name after '.'")
			}
			field := p.current.Value
			p.advance()
			e = expr.IndexMap(e, expr.Val(value.NewString(field)))
		case TOKEN_LBRACKET:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return expr.Expr{}, err
			}
			if err := p.expect(TOKEN_RBRACKET, "']'"); err != nil {
				return expr.Expr{}, err
			}
			p.advance()
			// A string-literal index is a map lookup, anything else a
			// vector position — the same inference the JSON grammar's
			// "idx" key applies.
			if isStringLiteral(idx) {
				e = expr.IndexMap(e, idx)
			} else {
				e = expr.IndexVec(e, idx)
			}
		default:
			return e, nil
		}
	}
}

func isStringLiteral(e expr.Expr) bool {
	if e.Kind() != expr.KindValue {
		return false
	}
	_, ok := e.Value().(value.String)
	return ok
}

func (p *Parser) parsePrimary() (expr.Expr, error) {
	switch p.current.Type {
	case TOKEN_INT:
		return p.parseIntLiteral()
	case TOKEN_FLOAT:
		return p.parseFloatLiteral()
	case TOKEN_DEC:
		return p.parseDecLiteral()
	case TOKEN_STRING:
		s := p.current.Literal
		p.advance()
		return expr.Val(value.NewString(s)), nil
	case TOKEN_TRUE:
		p.advance()
		return expr.Val(value.NewBool(true)), nil
	case TOKEN_FALSE:
		p.advance()
		return expr.Val(value.NewBool(false)), nil
	case TOKEN_NONE:
		p.advance()
		return expr.Val(value.None{}), nil
	case TOKEN_LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return expr.Expr{}, err
		}
		if err := p.expect(TOKEN_RPAREN, "')'"); err != nil {
			return expr.Expr{}, err
		}
		p.advance()
		return e, nil
	case TOKEN_LBRACKET:
		return p.parseVec()
	case TOKEN_LBRACE:
		return p.parseMap()
	case TOKEN_IF:
		return p.parseIf()
	case TOKEN_FOR:
		return p.parseFor()
	case TOKEN_COLON:
		p.advance()
		if p.current.Type != TOKEN_IDENT {
			return p.fail("expected symbol name after ':'")
		}
		name := p.current.Value
		p.advance()
		return expr.Symbol(name), nil
	case TOKEN_IDENT:
		return p.parseIdentOrCall()
	case TOKEN_AND, TOKEN_OR:
		// Infix and/or are consumed by parseAnd/parseOr; at the start of a
		// primary they can only be the call-style and(l, r) / or(l, r).
		if p.peek.Type == TOKEN_LPAREN {
			return p.parseIdentOrCall()
		}
		return p.fail("unexpected token " + p.current.Type.String())
	default:
		return p.fail("unexpected token " + p.current.Type.String())
	}
}

func (p *Parser) parseIntLiteral() (expr.Expr, error) {
	text := p.current.Value[1:] // drop leading 'i'
	p.advance()
	var base int
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base, text = 16, text[2:]
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		base, text = 2, text[2:]
	case strings.HasPrefix(text, "0o") || strings.HasPrefix(text, "0O"):
		base, text = 8, text[2:]
	default:
		base = 10
	}
	bi, ok := new(big.Int).SetString(text, base)
	if !ok {
		return expr.Expr{}, &errs.ParseError{Detail: "invalid integer literal"}
	}
	iv, ok := value.NewIntFromBig(bi)
	if !ok {
		return expr.Expr{}, &errs.ParseError{Detail: "integer literal out of 128-bit range"}
	}
	return expr.Val(iv), nil
}

func (p *Parser) parseFloatLiteral() (expr.Expr, error) {
	text := p.current.Value[1:] // drop leading 'f'
	p.advance()
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return expr.Expr{}, &errs.ParseError{Detail: "invalid float literal: " + err.Error()}
	}
	return expr.Val(value.NewFloat(f)), nil
}

func (p *Parser) parseDecLiteral() (expr.Expr, error) {
	text := p.current.Value[1:] // drop leading 'd'
	p.advance()
	d, err := value.ParseDecimal(text)
	if err != nil {
		return expr.Expr{}, &errs.ParseError{Detail: "invalid decimal literal: " + err.Error()}
	}
	return expr.Val(d), nil
}

func (p *Parser) parseVec() (expr.Expr, error) {
	p.advance() // consume '['
	var items []expr.Expr
	for p.current.Type != TOKEN_RBRACKET {
		e, err := p.parseExpr()
		if err != nil {
			return expr.Expr{}, err
		}
		items = append(items, e)
		if p.current.Type == TOKEN_COMMA {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(TOKEN_RBRACKET, "']'"); err != nil {
		return expr.Expr{}, err
	}
	p.advance()
	return expr.VecExpr(items), nil
}

func (p *Parser) parseMap() (expr.Expr, error) {
	p.advance() // consume '{'
	children := map[string]expr.Expr{}
	for p.current.Type != TOKEN_RBRACE {
		if p.current.Type != TOKEN_IDENT && p.current.Type != TOKEN_STRING {
			return p.fail("expected map key")
		}
		var key string
		if p.current.Type == TOKEN_STRING {
			key = p.current.Literal
		} else {
			key = p.current.Value
		}
		p.advance()
		if err := p.expect(TOKEN_COLON, "':'"); err != nil {
			return expr.Expr{}, err
		}
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return expr.Expr{}, err
		}
		children[key] = e
		if p.current.Type == TOKEN_COMMA {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(TOKEN_RBRACE, "'}'"); err != nil {
		return expr.Expr{}, err
	}
	p.advance()
	return expr.MapExpr(children), nil
}

func (p *Parser) parseIf() (expr.Expr, error) {
	p.advance() // consume 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return expr.Expr{}, err
	}
	if err := p.expect(TOKEN_THEN, "'then'"); err != nil {
		return expr.Expr{}, err
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return expr.Expr{}, err
	}
	if err := p.expect(TOKEN_ELSE, "'else'"); err != nil {
		return expr.Expr{}, err
	}
	p.advance()
	els, err := p.parseExpr()
	if err != nil {
		return expr.Expr{}, err
	}
	return expr.If(cond, then, els), nil
}

func (p *Parser) parseFor() (expr.Expr, error) {
	p.advance() // consume 'for'
	if p.current.Type != TOKEN_IDENT {
		return p.fail("expected bind identifier after 'for'")
	}
	bind := p.current.Value
	p.advance()
	if err := p.expect(TOKEN_IN, "'in'"); err != nil {
		return expr.Expr{}, err
	}
	p.advance()
	list, err := p.parseExpr()
	if err != nil {
		return expr.Expr{}, err
	}
	switch p.current.Type {
	case TOKEN_MAP:
		p.advance()
		body, err := p.parseExpr()
		if err != nil {
			return expr.Expr{}, err
		}
		return expr.ForMap(bind, list, body), nil
	case TOKEN_FILTER:
		p.advance()
		pred, err := p.parseExpr()
		if err != nil {
			return expr.Expr{}, err
		}
		return expr.ForFilter(bind, list, pred), nil
	default:
		return p.fail("expected 'map' or 'filter'")
	}
}

// unaryKeywordBuiltins maps a call-style keyword spelling to the unary
// Expr constructor it builds. These are the same node kinds the JSON
// grammar's single-key objects name; the text grammar accepts both this
// call-style spelling and (for the operators that have one) the infix
// spelling parsed above.
var unaryKeywordBuiltins = map[string]func(expr.Expr) expr.Expr{
	"neg":        expr.Neg,
	"not":        expr.Not,
	"int":        expr.CastInt,
	"float":      expr.CastFloat,
	"dec":        expr.CastDecimal,
	"cdecimal":   expr.CastDecimal,
	"datetime":   expr.CastDateTime,
	"duration":   expr.CastDuration,
	"some":       expr.Some,
	"isnone":     expr.IsNoneExpr,
	"is_none":    expr.IsNoneExpr,
	"upper_case": expr.UpperCase,
	"upcase":     expr.UpperCase,
	"lower_case": expr.LowerCase,
	"downcase":   expr.LowerCase,
	"trim":       expr.Trim,
	"round":      expr.Round,
	"floor":      expr.Floor,
	"fract":      expr.Fract,
	"year":       expr.Year,
	"month":      expr.Month,
	"week":       expr.Week,
	"day":        expr.Day,
	"hour":       expr.Hour,
	"minute":     expr.Minute,
	"second":     expr.Second,
}

// binaryKeywordBuiltins maps a call-style keyword spelling to the binary
// Expr constructor it builds — the same vocabulary as the JSON grammar's
// 2-element-array keys, offered here as an alternative to infix spelling
// (`gt(ref(age), i21)` parses the same as `age > i21`).
var binaryKeywordBuiltins = map[string]func(l, r expr.Expr) expr.Expr{
	"add":      expr.Add,
	"sub":      expr.Sub,
	"mult":     expr.Mult,
	"div":      expr.Div,
	"rem":      expr.Rem,
	"eq":       expr.Equals,
	"neq":      expr.NotEquals,
	"gt":       expr.GreaterThan,
	"gte":      expr.GreaterThanEquals,
	"lt":       expr.LessThan,
	"lte":      expr.LessThanEquals,
	"and":      expr.And,
	"or":       expr.Or,
	"bitand":   expr.BitAnd,
	"bitor":    expr.BitOr,
	"bitxor":   expr.BitXor,
	"contains": expr.Contains,
	"starts":   expr.Starts,
	"ends":     expr.Ends,
}

// parseIdentOrCall handles bare references (reference shorthand), ref(name),
// the call-style spelling of the builtin operators, and arbitrary
// single-argument user-function calls.
func (p *Parser) parseIdentOrCall() (expr.Expr, error) {
	name := p.current.Value
	p.advance()
	if p.current.Type != TOKEN_LPAREN {
		// Bare identifier shorthand: same as ref(name).
		return expr.Reference(name), nil
	}
	p.advance() // consume '('

	var args []expr.Expr
	if p.current.Type != TOKEN_RPAREN {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return expr.Expr{}, err
			}
			args = append(args, a)
			if p.current.Type == TOKEN_COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expect(TOKEN_RPAREN, "')'"); err != nil {
		return expr.Expr{}, err
	}
	p.advance()

	if name == "ref" {
		if len(args) != 1 || args[0].Kind() != expr.KindReference {
			return p.fail("ref(...) requires a single bare-identifier argument")
		}
		return args[0], nil
	}
	if ctor, ok := unaryKeywordBuiltins[name]; ok {
		if len(args) != 1 {
			return p.fail(name + "(...) takes exactly one argument")
		}
		return ctor(args[0]), nil
	}
	if ctor, ok := binaryKeywordBuiltins[name]; ok {
		if len(args) != 2 {
			return p.fail(name + "(...) takes exactly two arguments")
		}
		return ctor(args[0], args[1]), nil
	}
	if name == "all" || name == "any" {
		if len(args) != 1 {
			return p.fail(name + "(...) takes exactly one argument")
		}
		return expr.Function(name, args[0]), nil
	}
	// Arbitrary user-function call: single positional argument.
	if len(args) != 1 {
		return p.fail("user function calls take exactly one argument")
	}
	return expr.Function(name, args[0]), nil
}
