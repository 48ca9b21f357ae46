package sqlparser

import (
	"fmt"

	"github.com/SimonWaldherr/slotdbd/internal/catalog"
)

// Parser holds the lexer and current/peek tokens for recursive-descent
// parsing, one function per statement keyword.
type Parser struct {
	lx   *lexer
	cur  token
	peek token
}

// NewParser creates a parser over sql. The caller calls Parse once.
func NewParser(sql string) *Parser {
	p := &Parser{lx: newLexer(sql)}
	p.cur = p.lx.nextToken()
	p.peek = p.lx.nextToken()
	return p
}

func (p *Parser) advance() { p.cur, p.peek = p.peek, p.lx.nextToken() }

func (p *Parser) errf(format string, a ...any) error {
	return fmt.Errorf("near %q: %s", p.cur.val, fmt.Sprintf(format, a...))
}

func (p *Parser) expectKeyword(kw string) error {
	if p.cur.typ == tKeyword && p.cur.val == kw {
		p.advance()
		return nil
	}
	return p.errf("expected %s", kw)
}

func (p *Parser) expectSymbol(sym string) error {
	if p.cur.typ == tSymbol && p.cur.val == sym {
		p.advance()
		return nil
	}
	return p.errf("expected %q", sym)
}

// expectIdent accepts any identifier token (table/column names are never
// keywords in this grammar's test surface, but INT/TEXT are reserved).
func (p *Parser) expectIdent() (string, error) {
	if p.cur.typ != tIdent {
		return "", p.errf("expected identifier")
	}
	name := p.cur.val
	p.advance()
	return name, nil
}

// Parse dispatches on the leading keyword and returns a tagged Statement.
// A parse error is never returned alongside a nil Statement — instead it
// is folded into Statement.ErrorMessage so the wire layer can report
// "Error: <message>\n" without the caller re-checking two return values
// (§6.3).
func Parse(sql string) *Statement {
	p := NewParser(sql)
	stmt, err := p.parseStatement()
	if err != nil {
		return &Statement{ErrorMessage: err.Error()}
	}
	return stmt
}

func (p *Parser) parseStatement() (*Statement, error) {
	if p.cur.typ != tKeyword {
		return nil, p.errf("expected a statement keyword")
	}
	switch p.cur.val {
	case "CREATE":
		return p.parseCreate()
	case "INSERT":
		return p.parseInsert()
	case "SELECT":
		return p.parseSelect()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	default:
		return nil, p.errf("unexpected keyword %q", p.cur.val)
	}
}

func (p *Parser) parseCreate() (*Statement, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}
	switch {
	case p.cur.typ == tKeyword && p.cur.val == "TABLE":
		stmt, err := p.parseCreateTable()
		if err != nil {
			return nil, err
		}
		return &Statement{CreateTable: stmt}, nil
	case p.cur.typ == tKeyword && p.cur.val == "INDEX":
		stmt, err := p.parseCreateIndex()
		if err != nil {
			return nil, err
		}
		return &Statement{CreateIndex: stmt}, nil
	default:
		return nil, p.errf("expected TABLE or INDEX")
	}
}

func (p *Parser) parseCreateTable() (*CreateTableStmt, error) {
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var cols []ColumnSpec
	for {
		col, err := p.parseColumnSpec()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if p.cur.typ == tSymbol && p.cur.val == "," {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if len(cols) > catalog.MaxColumns {
		return nil, p.errf("CREATE TABLE %s: %d columns exceeds the %d-column limit", name, len(cols), catalog.MaxColumns)
	}
	p.skipSemicolon()
	return &CreateTableStmt{Table: name, Columns: cols}, nil
}

func (p *Parser) parseColumnSpec() (ColumnSpec, error) {
	name, err := p.expectIdent()
	if err != nil {
		return ColumnSpec{}, err
	}
	var typ string
	switch {
	case p.cur.typ == tKeyword && p.cur.val == "INT":
		typ = "INT"
		p.advance()
	case p.cur.typ == tKeyword && p.cur.val == "TEXT":
		typ = "TEXT"
		p.advance()
	default:
		return ColumnSpec{}, p.errf("expected column type INT or TEXT")
	}
	col := ColumnSpec{Name: name, Type: typ}
	for {
		switch {
		case p.cur.typ == tKeyword && p.cur.val == "PRIMARY":
			p.advance()
			if err := p.expectKeyword("KEY"); err != nil {
				return ColumnSpec{}, err
			}
			col.IsPrimaryKey = true
		case p.cur.typ == tKeyword && p.cur.val == "UNIQUE":
			p.advance()
			col.IsUnique = true
		default:
			return col, nil
		}
	}
}

func (p *Parser) parseCreateIndex() (*CreateIndexStmt, error) {
	if err := p.expectKeyword("INDEX"); err != nil {
		return nil, err
	}
	indexName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	col, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	p.skipSemicolon()
	return &CreateIndexStmt{IndexName: indexName, Table: table, Column: col}, nil
}

func (p *Parser) parseInsert() (*Statement, error) {
	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var values []string
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, lit)
		if p.cur.typ == tSymbol && p.cur.val == "," {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	p.skipSemicolon()
	return &Statement{Insert: &InsertStmt{Table: table, Values: values}}, nil
}

func (p *Parser) parseLiteral() (string, error) {
	switch p.cur.typ {
	case tString:
		v := p.cur.val
		p.advance()
		return v, nil
	case tNumber:
		v := p.cur.val
		p.advance()
		return v, nil
	default:
		return "", p.errf("expected a literal")
	}
}

func (p *Parser) parseColRef() (ColRef, error) {
	first, err := p.expectIdent()
	if err != nil {
		return ColRef{}, err
	}
	if p.cur.typ == tSymbol && p.cur.val == "." {
		p.advance()
		col, err := p.expectIdent()
		if err != nil {
			return ColRef{}, err
		}
		return ColRef{Table: first, Column: col}, nil
	}
	return ColRef{Column: first}, nil
}

func (p *Parser) parseSelect() (*Statement, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	stmt := &SelectStmt{}
	if p.cur.typ == tSymbol && p.cur.val == "*" {
		stmt.Star = true
		p.advance()
	} else {
		for {
			ref, err := p.parseColRef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, ref)
			if p.cur.typ == tSymbol && p.cur.val == "," {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	from, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt.From = from

	if p.cur.typ == tKeyword && p.cur.val == "JOIN" {
		p.advance()
		joinTable, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("ON"); err != nil {
			return nil, err
		}
		left, err := p.parseColRef()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		right, err := p.parseColRef()
		if err != nil {
			return nil, err
		}
		stmt.Join = &JoinClause{Table: joinTable, LeftCol: left, RightCol: right}
	}

	if p.cur.typ == tKeyword && p.cur.val == "WHERE" {
		pred, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = pred
	}
	p.skipSemicolon()
	return &Statement{Select: stmt}, nil
}

func (p *Parser) parseWhere() (*Predicate, error) {
	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	col, err := p.parseColRef()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("="); err != nil {
		return nil, err
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &Predicate{Col: col, Value: lit}, nil
}

func (p *Parser) parseUpdate() (*Statement, error) {
	if err := p.expectKeyword("UPDATE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	var assigns []Assignment
	for {
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, Assignment{Column: col, Value: lit})
		if p.cur.typ == tSymbol && p.cur.val == "," {
			p.advance()
			continue
		}
		break
	}
	stmt := &UpdateStmt{Table: table, Assignments: assigns}
	if p.cur.typ == tKeyword && p.cur.val == "WHERE" {
		pred, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = pred
	}
	p.skipSemicolon()
	return &Statement{Update: stmt}, nil
}

func (p *Parser) parseDelete() (*Statement, error) {
	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt := &DeleteStmt{Table: table}
	if p.cur.typ == tKeyword && p.cur.val == "WHERE" {
		pred, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = pred
	}
	p.skipSemicolon()
	return &Statement{Delete: stmt}, nil
}

// skipSemicolon tolerates (but does not require) a trailing ';' and any
// trailing whitespace already consumed by the lexer (§6.2).
func (p *Parser) skipSemicolon() {
	if p.cur.typ == tSymbol && p.cur.val == ";" {
		p.advance()
	}
}
