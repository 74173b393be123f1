package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/ast"
)

func TestParseEmptyProgram(t *testing.T) {
	root, err := Parse("")
	require.NoError(t, err)
	seq, ok := root.(*ast.Seq)
	require.True(t, ok)
	require.Nil(t, seq.Left)
	require.Nil(t, seq.Right)
}

func TestParseDeclWithInit(t *testing.T) {
	root, err := Parse("int x = 1 + 2;")
	require.NoError(t, err)
	seq := root.(*ast.Seq)
	decl, ok := seq.Right.(*ast.Decl)
	require.True(t, ok)
	require.Equal(t, "int", decl.DeclType.Value)
	require.Len(t, decl.Idents, 1)
	require.Equal(t, "x", decl.Idents[0].Value)

	bin, ok := decl.Init.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op.Value)
}

func TestParseMultiIdentDecl(t *testing.T) {
	root, err := Parse("int a, b, c;")
	require.NoError(t, err)
	decl := root.(*ast.Seq).Right.(*ast.Decl)
	require.Len(t, decl.Idents, 3)
	require.Nil(t, decl.Init)
}

// The parser accepts "int a, b = 1;" syntactically — Init alongside
// multiple Idents is a semantic error the IR generator raises
// (ir.execDecl), not a parse error.
func TestParseMultiIdentDeclWithInitParsesSyntactically(t *testing.T) {
	root, err := Parse("int a, b = 1;")
	require.NoError(t, err)
	decl := root.(*ast.Seq).Right.(*ast.Decl)
	require.Len(t, decl.Idents, 2)
	require.NotNil(t, decl.Init)
}

func TestParseIfElse(t *testing.T) {
	root, err := Parse(`
		int x = 0;
		if (x == 0) {
			print(x);
		} else {
			print("nonzero");
		}
	`)
	require.NoError(t, err)
	seq := root.(*ast.Seq)
	ifNode, ok := seq.Right.(*ast.If)
	require.True(t, ok)
	require.Equal(t, "==", ifNode.Cond.Comparison.Value)
	require.NotNil(t, ifNode.ThenBody)
	require.NotNil(t, ifNode.ElseBody)
}

func TestParseWhile(t *testing.T) {
	root, err := Parse(`
		int i = 0;
		while (i < 10) {
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	seq := root.(*ast.Seq)
	whileNode, ok := seq.Right.(*ast.While)
	require.True(t, ok)
	require.Equal(t, "<", whileNode.Cond.Comparison.Value)
}

func TestParsePrintStringLiteral(t *testing.T) {
	root, err := Parse(`print("hi");`)
	require.NoError(t, err)
	p := root.(*ast.Seq).Right.(*ast.Print)
	require.Equal(t, ast.PrintString, p.Kind)
	require.Equal(t, "hi", p.Literal)
	require.Nil(t, p.Expr)
}

func TestParsePrintDeclaredStringVariable(t *testing.T) {
	root, err := Parse(`
		string s = "hi";
		print(s);
	`)
	require.NoError(t, err)
	p := root.(*ast.Seq).Right.(*ast.Print)
	require.Equal(t, ast.PrintString, p.Kind)
	require.Empty(t, p.Literal)
	id, ok := p.Expr.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "s", id.Value())
}

func TestParsePrintIntExpr(t *testing.T) {
	root, err := Parse(`print(1 + 2);`)
	require.NoError(t, err)
	p := root.(*ast.Seq).Right.(*ast.Print)
	require.Equal(t, ast.PrintInt, p.Kind)
	require.NotNil(t, p.Expr)
}

func TestParseExpressionPrecedence(t *testing.T) {
	root, err := Parse("int x = 1 + 2 * 3;")
	require.NoError(t, err)
	decl := root.(*ast.Seq).Right.(*ast.Decl)
	top, ok := decl.Init.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "+", top.Op.Value)
	_, leftIsNumber := top.Left.(*ast.Number)
	require.True(t, leftIsNumber)
	right, ok := top.Right.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "*", right.Op.Value)
}

func TestParseParenthesizedExpression(t *testing.T) {
	root, err := Parse("int x = (1 + 2) * 3;")
	require.NoError(t, err)
	decl := root.(*ast.Seq).Right.(*ast.Decl)
	top := decl.Init.(*ast.BinOp)
	require.Equal(t, "*", top.Op.Value)
	_, leftIsBinOp := top.Left.(*ast.BinOp)
	require.True(t, leftIsBinOp)
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	_, err := Parse("int x = 1")
	require.Error(t, err)
}

func TestParseConditionWithoutComparisonIsError(t *testing.T) {
	_, err := Parse("while (x) { }")
	require.Error(t, err)
}
