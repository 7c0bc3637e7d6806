package compiler

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/lexer"
	"github.com/dwgrep/zwerg/pkg/zwerg/tree"
)

// domainValue builds the constant.Constant a CONST tree node's lexed
// domain and magnitude denote.
func domainValue(n *tree.Node) constant.Constant {
	var dom constant.Domain
	switch n.ConstDomain {
	case lexer.DomainHex:
		dom = constant.Hex
	case lexer.DomainOct:
		dom = constant.Octal
	case lexer.DomainBin:
		dom = constant.Binary
	default:
		dom = constant.Decimal
	}
	return constant.New(constant.FromUint64(n.ConstValue), dom)
}
