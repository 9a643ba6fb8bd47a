package ast

import (
	"strconv"
	"strings"

	"github.com/strager/mipsc/sexy"
)

// ToSExpr converts a syntax tree to the S-expression form accepted by Read.
// Line numbers are not included.
func ToSExpr(node *Node) string {
	if node == nil {
		return "[]"
	}
	switch node.Kind {
	case NodeProgram:
		return "(program " + ToSExpr(node.Child(0)) + " " + ToSExpr(node.Child(1)) + ")"
	case NodeVarDeclList, NodeStmtList, NodeParamList, NodeArgList:
		parts := make([]string, 0, len(node.Children))
		for _, child := range node.Children {
			parts = append(parts, ToSExpr(child))
		}
		return "[" + strings.Join(parts, " ") + "]"
	case NodeVarDecl:
		return "(var " + quote(node.Type) + " " + quote(node.Name) + ")"
	case NodeParam:
		return "(param " + quote(node.Type) + " " + quote(node.Name) + ")"
	case NodeArrayDecl:
		if node.Size == SizeUnset {
			return "(array " + quote(node.Type) + " " + quote(node.Name) + ")"
		}
		return "(array " + quote(node.Type) + " " + quote(node.Name) + " " + strconv.Itoa(node.Size) + ")"
	case NodeFunctionDecl:
		return "(func " + quote(node.Name) + " " + quote(node.Type) + " " +
			ToSExpr(node.Child(0)) + " " + ToSExpr(node.Child(1)) + ")"
	case NodeSimpleExpr:
		return strconv.FormatInt(node.Integer, 10)
	case NodeSimpleID:
		return "(id " + quote(node.Name) + ")"
	case NodeBinOp:
		return "(binop " + quote(node.Op) + " " + ToSExpr(node.Left()) + " " + ToSExpr(node.Right()) + ")"
	case NodeExpr:
		return "(expr " + quote(node.Op) + " " + ToSExpr(node.Left()) + " " + ToSExpr(node.Right()) + ")"
	case NodeAssignStmt:
		return "(assign " + quote(node.Name) + " " + ToSExpr(node.Child(0)) + ")"
	case NodeWriteStmt:
		return "(write " + ToSExpr(node.Child(0)) + ")"
	case NodeFunctionCall:
		return "(call " + quote(node.Name) + " " + ToSExpr(node.Child(0)) + ")"
	case NodeArg:
		return ToSExpr(node.Child(0))
	case NodeArrayAccess:
		return "(index " + quote(node.Name) + " " + ToSExpr(node.Child(0)) + ")"
	default:
		return ""
	}
}

func quote(s string) string {
	return sexy.NewString(s).String()
}
