// Package parser implements the recursive-descent parser from spec §4.1: one
// token of lookahead, left-associative binary operators built by iteration
// (not right-recursion, which mis-parses `1-2-3`), right-associative
// assignment, and a single synchronize-on-semicolon recovery strategy that
// lets one parse collect every statement-level error instead of stopping at
// the first.
package parser

import (
	"github.com/cbarrett/golox/internal/ast"
	"github.com/cbarrett/golox/internal/errs"
	"github.com/cbarrett/golox/internal/token"
)

// Parse consumes the full token stream and returns every top-level
// statement it could parse, plus the accumulated parse errors.
func Parse(tokens []token.Token) ([]ast.Stmt, *errs.List) {
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens []token.Token
	idx    int
	errs   errs.List
}

// parseError unwinds the current statement/declaration on a syntax mistake;
// it never escapes the package (recovered in parseProgram's loop).
type parseError struct{}

func (p *parser) parseProgram() ([]ast.Stmt, *errs.List) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmt, ok := p.safeDeclaration()
		if ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, &p.errs
}

// safeDeclaration runs declaration() and recovers from a parseError by
// synchronizing, so one bad statement doesn't abort the whole parse.
func (p *parser) safeDeclaration() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); !isParseErr {
				panic(r)
			}
			p.synchronize()
			stmt, ok = nil, false
		}
	}()
	return p.declaration(), true
}

func (p *parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDecl()
	case p.match(token.FUN):
		return p.funDecl(false)
	case p.match(token.VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *parser) classDecl() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "expected a class name")

	var super *ast.Variable
	if p.match(token.LESS) {
		superName := p.consume(token.IDENTIFIER, "expected a superclass name")
		super = &ast.Variable{Name: superName}
	}

	p.consume(token.LEFT_BRACE, "expected '{' before class body")

	var methods []*ast.Fun
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		methods = append(methods, p.funDecl(true).(*ast.Fun))
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after class body")

	return &ast.Class{Name: name, Superclass: super, Methods: methods}
}

func (p *parser) funDecl(isMethod bool) ast.Stmt {
	kind := "function"
	if isMethod {
		kind = "method"
	}
	name := p.consume(token.IDENTIFIER, "expected a "+kind+" name")
	p.consume(token.LEFT_PAREN, "expected '(' after "+kind+" name")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		params = append(params, p.consume(token.IDENTIFIER, "expected a parameter name"))
		for p.match(token.COMMA) {
			if p.check(token.RIGHT_PAREN) {
				p.error("trailing comma before ')'")
			}
			params = append(params, p.consume(token.IDENTIFIER, "expected a parameter name"))
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after parameters")
	p.consume(token.LEFT_BRACE, "expected '{' before "+kind+" body")
	body := p.blockStmts()

	return &ast.Fun{Name: name, Params: params, Body: body, IsMethod: isMethod}
}

func (p *parser) varDecl() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "expected a variable name")

	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after variable declaration")
	return &ast.VarDecl{Name: name, Init: init}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Stmts: p.blockStmts()}
	default:
		return p.exprStmt()
	}
}

func (p *parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after expression")
	return &ast.Expression{Expr: expr}
}

func (p *parser) printStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after value")
	return &ast.Print{Expr: expr}
}

func (p *parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after return value")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *parser) ifStmt() ast.Stmt {
	p.consume(token.LEFT_PAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "expected ')' after if condition")
	then := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBranch}
}

func (p *parser) whileStmt() ast.Stmt {
	p.consume(token.LEFT_PAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "expected ')' after while condition")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

func (p *parser) forStmt() ast.Stmt {
	p.consume(token.LEFT_PAREN, "expected '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after loop condition")

	var incr ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		incr = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after for clauses")

	body := p.statement()
	return &ast.For{Init: init, Cond: cond, Incr: incr, Body: body}
}

// blockStmts parses statements until the matching '}', which it consumes.
func (p *parser) blockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		stmt, ok := p.safeDeclaration()
		if ok {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after block")
	return stmts
}

// --------------------------- expressions ---------------------------

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.equality()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment() // right-associative

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "cannot assign to r-value")
			return expr
		}
	}

	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.STAR, token.SLASH) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "expected a property name after '.'")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		args = append(args, p.expression())
		for p.match(token.COMMA) {
			if p.check(token.RIGHT_PAREN) {
				p.error("trailing comma before ')'")
			}
			args = append(args, p.expression())
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "expected ')' after arguments")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.TRUE, token.FALSE, token.NIL, token.NUMBER, token.STRING):
		return &ast.Literal{Token: p.previous()}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "expected '.' after 'super'")
		method := p.consume(token.IDENTIFIER, "expected a superclass method name")
		// `super.method` resolves like any other property access once
		// `super` is bound as an ordinary name in the instance's method
		// scope (spec §4.3.5), so it reuses Get over a Variable("super").
		return &ast.Get{Object: &ast.Variable{Name: keyword}, Name: method}
	case p.match(token.THIS):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LEFT_PAREN):
		inner := p.expression()
		p.consume(token.RIGHT_PAREN, "expected ')' after expression")
		return &ast.Grouping{Expr: inner}
	default:
		p.error("expected an expression")
		return nil // unreachable: p.error panics
	}
}

// --------------------------- helpers ---------------------------

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(k token.Kind) bool {
	return !p.atEnd() && p.current().Kind == k
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *parser) atEnd() bool {
	return p.current().Kind == token.EOF
}

func (p *parser) current() token.Token {
	return p.tokens[p.idx]
}

func (p *parser) previous() token.Token {
	if p.idx == 0 {
		return p.current()
	}
	return p.tokens[p.idx-1]
}

func (p *parser) consume(k token.Kind, msg string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	if p.atEnd() {
		p.error("incomplete statement — expected more tokens")
	}
	p.error(msg)
	return token.Token{} // unreachable: p.error panics
}

func (p *parser) error(msg string) {
	p.errorAt(p.current(), msg)
}

func (p *parser) errorAt(tok token.Token, msg string) {
	p.errs.Add(errs.Parse, tok.Line, tok.Column, "at '%s': %s", tok.Lexeme, msg)
	panic(parseError{})
}

// synchronize discards tokens until just past the next run of semicolons,
// then resumes parsing at the following statement (spec §4.1 "Error
// recovery"). A single failure therefore costs at most one statement.
func (p *parser) synchronize() {
	for !p.atEnd() {
		if p.current().Kind == token.SEMICOLON {
			p.advance()
			for p.check(token.SEMICOLON) {
				p.advance()
			}
			return
		}

		switch p.current().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
