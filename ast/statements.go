package ast

import (
	"strings"

	"github.com/risor-io/lowering/internal/token"
)

// SourceFile is the root of one compilation unit.
type SourceFile struct {
	Flagged
	FileName string
	Stmts    []Stmt
	EOF      token.Position

	// Helpers lists the names of runtime helpers that lowering requested.
	// String renders their definitions ahead of the statements.
	Helpers []string
}

func (x *SourceFile) Pos() token.Position {
	if len(x.Stmts) > 0 {
		return x.Stmts[0].Pos()
	}
	return token.Position{File: x.FileName}
}

func (x *SourceFile) End() token.Position { return x.EOF }

func (x *SourceFile) String() string {
	var lines []string
	for _, name := range x.Helpers {
		if h, ok := LookupHelper(name); ok {
			lines = append(lines, h.Text)
		}
	}
	for _, s := range x.Stmts {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}

// HasHelper reports whether the named helper was requested.
func (x *SourceFile) HasHelper(name string) bool {
	for _, h := range x.Helpers {
		if h == name {
			return true
		}
	}
	return false
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Flagged
	X Expr
}

func (x *ExprStmt) stmtNode() {}

func (x *ExprStmt) Pos() token.Position { return x.X.Pos() }
func (x *ExprStmt) End() token.Position { return x.X.End() }

func (x *ExprStmt) String() string {
	s := x.X.String()
	// An expression statement may not begin with "{" or "function".
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "function") {
		s = "(" + s + ")"
	}
	return s + ";"
}

// VarBinding is one "name = value" entry of a VarDecl. Value may be nil.
type VarBinding struct {
	Flagged
	Name  *Ident
	Value Expr
}

func (x *VarBinding) Pos() token.Position { return x.Name.Pos() }
func (x *VarBinding) End() token.Position {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Name.End()
}

func (x *VarBinding) String() string {
	if x.Value == nil {
		return x.Name.Name
	}
	return x.Name.Name + " = " + x.Value.String()
}

// VarDecl is a "var", "let" or "const" declaration.
type VarDecl struct {
	Flagged
	Keyword  token.Position // position of the keyword
	Kind     token.Type     // VAR, LET or CONST
	Bindings []*VarBinding
}

func (x *VarDecl) stmtNode() {}

func (x *VarDecl) Pos() token.Position { return x.Keyword }
func (x *VarDecl) End() token.Position {
	if n := len(x.Bindings); n > 0 {
		return x.Bindings[n-1].End()
	}
	return x.Keyword.Advance(len(x.Kind))
}

func (x *VarDecl) String() string {
	items := make([]string, 0, len(x.Bindings))
	for _, b := range x.Bindings {
		items = append(items, b.String())
	}
	return strings.ToLower(string(x.Kind)) + " " + strings.Join(items, ", ") + ";"
}

// FuncDecl is a named function declaration.
type FuncDecl struct {
	Flagged
	Func   token.Position
	Name   *Ident
	Params []*Ident
	Body   *Block
}

func (x *FuncDecl) stmtNode() {}

func (x *FuncDecl) Pos() token.Position { return x.Func }
func (x *FuncDecl) End() token.Position { return x.Body.End() }

func (x *FuncDecl) String() string {
	return renderFunction(x.Name, x.Params, x.Body)
}

// Return is a statement node that describes a return statement.
type Return struct {
	Flagged
	ReturnPos token.Position // position of "return" keyword
	Value     Expr           // return value; nil for bare return
}

func (x *Return) stmtNode() {}

func (x *Return) Pos() token.Position { return x.ReturnPos }
func (x *Return) End() token.Position {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.ReturnPos.Advance(6) // len("return")
}

func (x *Return) String() string {
	if x.Value == nil {
		return "return;"
	}
	return "return " + x.Value.String() + ";"
}

// Throw is a statement node that describes a throw statement.
type Throw struct {
	Flagged
	ThrowPos token.Position // position of "throw" keyword
	Value    Expr
}

func (x *Throw) stmtNode() {}

func (x *Throw) Pos() token.Position { return x.ThrowPos }
func (x *Throw) End() token.Position { return x.Value.End() }

func (x *Throw) String() string { return "throw " + x.Value.String() + ";" }

// Block is a braced list of statements.
type Block struct {
	Flagged
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position
}

func (x *Block) stmtNode() {}

func (x *Block) Pos() token.Position { return x.Lbrace }
func (x *Block) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Block) String() string {
	if len(x.Stmts) == 0 {
		return "{}"
	}
	var out strings.Builder
	out.WriteString("{\n")
	for _, s := range x.Stmts {
		for _, line := range strings.Split(s.String(), "\n") {
			out.WriteString("    ")
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	out.WriteString("}")
	return out.String()
}

// If is an if/else statement.
type If struct {
	Flagged
	IfPos       token.Position // position of "if" keyword
	Cond        Expr
	Consequence Stmt
	Alternative Stmt // nil if no else
}

func (x *If) stmtNode() {}

func (x *If) Pos() token.Position { return x.IfPos }
func (x *If) End() token.Position {
	if x.Alternative != nil {
		return x.Alternative.End()
	}
	return x.Consequence.End()
}

func (x *If) String() string {
	s := "if (" + x.Cond.String() + ") " + x.Consequence.String()
	if x.Alternative != nil {
		s += " else " + x.Alternative.String()
	}
	return s
}
