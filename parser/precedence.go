package parser

import "github.com/risor-io/lowering/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = **= += -= *= /=
	OR          // ||
	AND         // &&
	EQUALS      // == != === !==
	LESSGREATER // > or <
	SUM         // + or -
	PRODUCT     // * / %
	PREFIX      // -X !X typeof X
	POWER       // **
	CALL        // myFunction(X), tag`tpl`
	INDEX       // array[index], object.name
	HIGHEST
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:              ASSIGN,
	token.POW_EQUALS:          ASSIGN,
	token.PLUS_EQUALS:         ASSIGN,
	token.MINUS_EQUALS:        ASSIGN,
	token.ASTERISK_EQUALS:     ASSIGN,
	token.SLASH_EQUALS:        ASSIGN,
	token.OR:                  OR,
	token.AND:                 AND,
	token.EQ:                  EQUALS,
	token.NOT_EQ:              EQUALS,
	token.EQ_STRICT:           EQUALS,
	token.NOT_EQ_STRICT:       EQUALS,
	token.LT:                  LESSGREATER,
	token.LT_EQUALS:           LESSGREATER,
	token.GT:                  LESSGREATER,
	token.GT_EQUALS:           LESSGREATER,
	token.PLUS:                SUM,
	token.MINUS:               SUM,
	token.SLASH:               PRODUCT,
	token.ASTERISK:            PRODUCT,
	token.MOD:                 PRODUCT,
	token.POW:                 POWER,
	token.LPAREN:              CALL,
	token.TEMPLATE_HEAD:       CALL,
	token.NO_SUBSTITUTION_TPL: CALL,
	token.PERIOD:              INDEX,
	token.LBRACKET:            INDEX,
}

// rightAssociative operators bind their right operand at one level below
// their own precedence.
var rightAssociative = map[token.Type]bool{
	token.ASSIGN:          true,
	token.POW_EQUALS:      true,
	token.PLUS_EQUALS:     true,
	token.MINUS_EQUALS:    true,
	token.ASTERISK_EQUALS: true,
	token.SLASH_EQUALS:    true,
	token.POW:             true,
}
