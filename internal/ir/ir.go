// Package ir lowers the AST into a flat, label-threaded, three-address
// instruction stream, ported from original_source/src/ir.cpp's
// IntermediateCodeGen — including its quirks (spec.md §9): assigning
// to an undeclared identifier defaults it to kind "string", and the
// while-loop lowering allocates a body label it never emits.
package ir

import (
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"

	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/ast"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/types"
)

type Instr interface{ isInstr() }

// Var = Left when Op is empty, else Var = Left Op Right.
type Assignment struct {
	Var   string
	Left  string
	Op    string
	Right string
}

func (*Assignment) isInstr() {}

type Jump struct{ Target string }

func (*Jump) isInstr() {}

type Label struct{ Name string }

func (*Label) isInstr() {}

// Compare jumps to Target when Left CmpOp Right holds.
type Compare struct {
	Left   string
	CmpOp  string
	Right  string
	Target string
}

func (*Compare) isInstr() {}

type PrintKind string

const (
	PrintInt    PrintKind = "int"
	PrintString PrintKind = "string"
)

type Print struct {
	Kind  PrintKind
	Value string
}

func (*Print) isInstr() {}

type GeneratedIR struct {
	Code        []Instr
	Identifiers map[string]types.Kind
	Constants   map[string]string
}

type SemanticError struct {
	Line int
	Msg  string
}

func (e *SemanticError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

type generator struct {
	code        []Instr
	identifiers map[string]types.Kind
	constants   map[string]string
	constHash   map[uint64]string // digest(bytes) -> already-allocated S<n>, see SPEC_FULL.md §3.1

	tCounter int
	lCounter int
	sCounter int

	log *slog.Logger
}

// Generate lowers root into a GeneratedIR bundle. log receives a
// Debug-level trace of every instruction emitted.
func Generate(root ast.Node, log *slog.Logger) (*GeneratedIR, error) {
	if log == nil {
		log = slog.Default()
	}
	g := &generator{
		identifiers: map[string]types.Kind{},
		constants:   map[string]string{},
		constHash:   map[uint64]string{},
		tCounter:    1,
		lCounter:    1,
		sCounter:    1,
		log:         log,
	}
	if err := g.execStatement(root); err != nil {
		return nil, err
	}
	return &GeneratedIR{
		Code:        g.code,
		Identifiers: g.identifiers,
		Constants:   g.constants,
	}, nil
}

func (g *generator) emit(i Instr) {
	g.code = append(g.code, i)
	g.log.Debug("emit", slog.Any("instr", i))
}

func (g *generator) nextTemp() string {
	t := fmt.Sprintf("T%d", g.tCounter)
	g.tCounter++
	return t
}

func (g *generator) nextLabel() string {
	l := fmt.Sprintf("L%d", g.lCounter)
	g.lCounter++
	return l
}

// internString reuses an existing S<n> for a byte-identical literal
// already interned this compilation (SPEC_FULL.md §3.1), instead of
// minting a duplicate.
func (g *generator) internString(bytes string) string {
	h := xxhash.Sum64String(bytes)
	if sym, ok := g.constHash[h]; ok {
		return sym
	}
	sym := fmt.Sprintf("S%d", g.sCounter)
	g.sCounter++
	g.constants[sym] = bytes
	g.constHash[h] = sym
	return sym
}

func (g *generator) execExpr(n ast.Node) (string, error) {
	switch e := n.(type) {
	case *ast.Identifier:
		return e.Value(), nil
	case *ast.Number:
		return e.Value(), nil
	case *ast.StringLiteral:
		return g.internString(e.Value()), nil
	case *ast.BinOp:
		left, err := g.execExpr(e.Left)
		if err != nil {
			return "", err
		}
		right, err := g.execExpr(e.Right)
		if err != nil {
			return "", err
		}
		t := g.nextTemp()
		g.identifiers[t] = types.Int
		g.emit(&Assignment{Var: t, Left: left, Op: e.Op.Value, Right: right})
		return t, nil
	default:
		return "", fmt.Errorf("ir: node %T is not valid in expression position", n)
	}
}

func (g *generator) execStatement(n ast.Node) error {
	if n == nil {
		return nil
	}
	switch s := n.(type) {
	case *ast.Seq:
		if err := g.execStatement(s.Left); err != nil {
			return err
		}
		return g.execStatement(s.Right)
	case *ast.Decl:
		return g.execDecl(s)
	case *ast.Assign:
		return g.execAssign(s)
	case *ast.If:
		return g.execIf(s)
	case *ast.While:
		return g.execWhile(s)
	case *ast.Print:
		return g.execPrint(s)
	default:
		return fmt.Errorf("ir: node %T is not valid in statement position", n)
	}
}

func (g *generator) execDecl(d *ast.Decl) error {
	kind := types.ParseKind(d.DeclType.Value)
	for _, id := range d.Idents {
		g.identifiers[id.Value] = kind
	}
	if d.Init == nil {
		return nil
	}
	if len(d.Idents) != 1 {
		return &SemanticError{Line: d.DeclType.Line, Msg: "Init only allowed for single variable declaration"}
	}
	right, err := g.execExpr(d.Init)
	if err != nil {
		return err
	}
	g.emit(&Assignment{Var: d.Idents[0].Value, Left: right})
	return nil
}

// execAssign lowers Assign. When the target identifier has never been
// declared, it is registered as kind string — a preserved bug
// (spec.md §9: "Default-to-string on undeclared assignment"), not a
// cleaned-up default.
func (g *generator) execAssign(a *ast.Assign) error {
	if _, known := g.identifiers[a.Ident.Value]; !known {
		g.identifiers[a.Ident.Value] = types.String
	}
	right, err := g.execExpr(a.Expr)
	if err != nil {
		return err
	}
	g.emit(&Assignment{Var: a.Ident.Value, Left: right})
	return nil
}

// execCondition lowers a Condition, emitting its Compare and
// returning the label that Compare jumps to on a true result
// (spec.md §4.1.1).
func (g *generator) execCondition(c *ast.Condition) (string, error) {
	left, err := g.execExpr(c.Left)
	if err != nil {
		return "", err
	}
	right, err := g.execExpr(c.Right)
	if err != nil {
		return "", err
	}
	trueLabel := g.nextLabel()
	g.emit(&Compare{Left: left, CmpOp: c.Comparison.Value, Right: right, Target: trueLabel})
	return trueLabel, nil
}

// execIf lowers If exactly per spec.md §4.1.1; the emission order is
// load-bearing for Scenario B in spec.md §8.
func (g *generator) execIf(i *ast.If) error {
	thenLabel, err := g.execCondition(i.Cond)
	if err != nil {
		return err
	}
	elseLabel := g.nextLabel()
	endLabel := g.nextLabel()

	g.emit(&Jump{Target: elseLabel})

	g.emit(&Label{Name: thenLabel})
	if err := g.execStatement(i.ThenBody); err != nil {
		return err
	}
	g.emit(&Jump{Target: endLabel})

	g.emit(&Label{Name: elseLabel})
	if i.ElseBody != nil {
		if err := g.execStatement(i.ElseBody); err != nil {
			return err
		}
	}

	g.emit(&Label{Name: endLabel})
	return nil
}

// Label order is start, spare (never emitted), end, then whatever
// execCondition allocates for its true-branch target — see DESIGN.md's
// "Open Question: while-loop label order".
func (g *generator) execWhile(w *ast.While) error {
	startLabel := g.nextLabel()
	_ = g.nextLabel() // spare "body" label, allocated but never emitted — spec.md §9
	endLabel := g.nextLabel()

	g.emit(&Label{Name: startLabel})

	trueLabel, err := g.execCondition(w.Cond)
	if err != nil {
		return err
	}
	g.emit(&Jump{Target: endLabel})

	g.emit(&Label{Name: trueLabel})
	if err := g.execStatement(w.Body); err != nil {
		return err
	}
	g.emit(&Jump{Target: startLabel})

	g.emit(&Label{Name: endLabel})
	return nil
}

func (g *generator) execPrint(p *ast.Print) error {
	if p.Kind == ast.PrintString {
		if p.Literal != "" {
			sym := g.internString(p.Literal)
			g.emit(&Print{Kind: PrintString, Value: sym})
			return nil
		}
		v, err := g.execExpr(p.Expr)
		if err != nil {
			return err
		}
		g.emit(&Print{Kind: PrintString, Value: v})
		return nil
	}
	v, err := g.execExpr(p.Expr)
	if err != nil {
		return err
	}
	g.emit(&Print{Kind: PrintInt, Value: v})
	return nil
}
