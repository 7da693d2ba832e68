package transform

import (
	"strconv"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/factory"
	"github.com/risor-io/lowering/internal/token"
)

// tempLetters are the single letter temporary names. "i" and "n" are left
// to user code since they are commonly used as loop variables.
const tempLetters = "abcdefghjklmopqrstuvwxyz"

func tempName(index int) string {
	if index < len(tempLetters) {
		return "_" + tempLetters[index:index+1]
	}
	return "_" + strconv.Itoa(index-len(tempLetters))
}

// CreateTempVariable returns a fresh identifier that does not collide with
// any identifier of the unit or any earlier temporary. When hoist is true
// the name is declared with "var" at the top of the innermost function body
// or source file.
func (c *Context) CreateTempVariable(hoist bool) *ast.Ident {
	var name string
	for {
		name = tempName(c.tempIndex)
		c.tempIndex++
		if !c.names[name] {
			break
		}
	}
	c.names[name] = true
	id := factory.Ident(name, token.NoPos)
	if hoist {
		c.HoistVariableDeclaration(id)
	}
	return id
}

// HoistVariableDeclaration declares name in the innermost lexical
// environment.
func (c *Context) HoistVariableDeclaration(name *ast.Ident) {
	if len(c.envs) == 0 {
		c.StartLexicalEnvironment()
	}
	top := len(c.envs) - 1
	c.envs[top] = append(c.envs[top], name)
}

// StartLexicalEnvironment opens a scope for hoisted declarations.
func (c *Context) StartLexicalEnvironment() {
	c.envs = append(c.envs, nil)
}

// EndLexicalEnvironment closes the innermost scope and returns the
// declarations to prepend to its body, if any.
func (c *Context) EndLexicalEnvironment() []ast.Stmt {
	n := len(c.envs)
	if n == 0 {
		return nil
	}
	vars := c.envs[n-1]
	c.envs = c.envs[:n-1]
	if len(vars) == 0 {
		return nil
	}
	return []ast.Stmt{factory.HoistedVars(vars, token.NoPos)}
}
