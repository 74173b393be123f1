// Package x86_64 translates a GeneratedIR bundle into NASM-syntax
// x86-64 assembly text, following spec.md §4.2. There is no register
// allocator: every identifier and temporary lives in a fixed .bss
// slot, and computation runs through the fixed rax/rbx/rdx
// convention spec.md mandates. The emitted instruction text for the
// two helper routines is copied verbatim from
// original_source/src/codegen.cpp, per spec.md §9's guidance that a
// faithful port copy the helper assembly as-is.
package x86_64

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/ir"
)

var arithMnemonic = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "imul",
	"/": "idiv",
}

var cmpJump = map[string]string{
	"==": "je",
	"!=": "jne",
	"<":  "jl",
	"<=": "jle",
	">":  "jg",
	">=": "jge",
}

// Emit produces the full NASM text for gen. entry overrides the
// emitted _start-equivalent symbol name; pass "" to use the default
// "_start".
func Emit(gen *ir.GeneratedIR, entry string) (string, error) {
	if entry == "" {
		entry = "_start"
	}
	e := &emitter{gen: gen, entry: entry}
	e.prescan()
	e.genBSS()
	e.genDataAndTextHeader()
	if err := e.genCode(); err != nil {
		return "", err
	}
	e.genExit()
	if e.needPrintNum {
		e.genPrintNumHelper()
	}
	if e.needPrintString {
		e.genPrintStringHelper()
	}
	return e.out.String(), nil
}

type emitter struct {
	gen   *ir.GeneratedIR
	entry string
	out   strings.Builder

	needPrintNum    bool
	needPrintString bool
}

func (e *emitter) pr(line string) {
	e.out.WriteString(line)
	e.out.WriteByte('\n')
}

func (e *emitter) prf(format string, args ...any) {
	e.pr(fmt.Sprintf(format, args...))
}

// operand resolves an IR operand string to a NASM operand, per
// spec.md §4.2's storage convention: a leading digit (or '-' then a
// digit) is an immediate; anything else is a [name] memory reference.
func operand(s string) string {
	if s == "" {
		return s
	}
	if isDigit(s[0]) || (s[0] == '-' && len(s) > 1 && isDigit(s[1])) {
		return s
	}
	return "[" + s + "]"
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (e *emitter) prescan() {
	for _, ins := range e.gen.Code {
		p, ok := ins.(*ir.Print)
		if !ok {
			continue
		}
		if p.Kind == ir.PrintString {
			e.needPrintString = true
		} else {
			e.needPrintNum = true
		}
	}
}

func (e *emitter) genBSS() {
	e.pr("section .bss")
	if e.needPrintNum {
		e.pr("\tdigitSpace resb 100")
		e.pr("\tdigitSpacePos resb 8")
		e.pr("")
	}
	// Deterministic order for reproducible output across runs
	// (spec.md §8 property 5): Go map iteration order is randomized,
	// the bundle's insertion order is not preserved anywhere else.
	names := make([]string, 0, len(e.gen.Identifiers))
	for name := range e.gen.Identifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.prf("\t%s resb 8", name)
	}
}

func (e *emitter) genDataAndTextHeader() {
	e.pr("section .data")

	names := make([]string, 0, len(e.gen.Constants))
	for name := range e.gen.Constants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.pr(dataLine(name, e.gen.Constants[name]))
	}

	e.pr("section .text")
	e.prf("\tglobal %s", e.entry)
	e.pr("")
	e.prf("%s:", e.entry)
}

// dataLine renders one constant as "\t<name> db <b0>, <b1>, ..., 10, 0",
// matching codegen.cpp's gen_start byte-by-byte encoding.
func dataLine(name, value string) string {
	var b strings.Builder
	b.WriteByte('\t')
	b.WriteString(name)
	b.WriteString(" db ")
	for _, c := range []byte(value) {
		fmt.Fprintf(&b, "%d, ", c)
	}
	b.WriteString("10, 0")
	return b.String()
}

func (e *emitter) genExit() {
	e.pr("\tmov rax, 60      ; __NR_exit")
	e.pr("\tmov rdi, 0       ; status")
	e.pr("\tsyscall")
	e.pr("")
}

func (e *emitter) genCode() error {
	for _, ins := range e.gen.Code {
		switch in := ins.(type) {
		case *ir.Assignment:
			e.genAssignment(in)
		case *ir.Jump:
			e.prf("\tjmp %s", in.Target)
		case *ir.Label:
			e.prf("%s:", in.Name)
		case *ir.Compare:
			e.genCompare(in)
		case *ir.Print:
			if err := e.genPrint(in); err != nil {
				return err
			}
		default:
			return fmt.Errorf("x86_64: unhandled IR instruction %T", ins)
		}
	}
	return nil
}

func (e *emitter) genAssignment(a *ir.Assignment) {
	if a.Op == "" {
		if _, isConst := e.gen.Constants[a.Left]; isConst {
			e.prf("\tlea rax, [rel %s]", a.Left)
		} else {
			e.prf("\tmov rax, %s", operand(a.Left))
		}
		e.prf("\tmov %s, rax", operand(a.Var))
		return
	}

	e.prf("\tmov rax, %s", operand(a.Left))
	if a.Op == "/" {
		e.pr("\tcqo")
		e.prf("\tmov rbx, %s", operand(a.Right))
		e.pr("\tidiv rbx")
	} else {
		e.prf("\tmov rbx, %s", operand(a.Right))
		e.prf("\t%s rax, rbx", arithMnemonic[a.Op])
	}
	e.prf("\tmov %s, rax", operand(a.Var))
}

func (e *emitter) genCompare(c *ir.Compare) {
	e.prf("\tmov rax, %s", operand(c.Left))
	e.prf("\tcmp rax, %s", operand(c.Right))
	e.prf("\t%s %s", cmpJump[c.CmpOp], c.Target)
}

func (e *emitter) genPrint(p *ir.Print) error {
	if p.Kind == ir.PrintInt {
		e.prf("\tmov rdi, %s", operand(p.Value))
		e.pr("\tcall print_num")
		return nil
	}
	if _, isConst := e.gen.Constants[p.Value]; isConst {
		e.prf("\tmov rdi, %s", p.Value)
	} else {
		e.prf("\tmov rdi, [%s]", p.Value)
	}
	e.pr("\tcall print_string")
	return nil
}

// genPrintNumHelper emits the fixed print_num routine (spec.md §4.2.4),
// copied verbatim from original_source/src/codegen.cpp's
// gen_print_num_function.
func (e *emitter) genPrintNumHelper() {
	e.pr(`
print_num:
    mov rcx, digitSpace       ; buffer start
    mov rbx, 10
    mov rax, rdi              ; number

    ; handle negative
    cmp rax, 0
    jge .loop
    neg rax
    mov byte [rcx], '-'
    inc rcx

.loop:
    xor rdx, rdx
    div rbx                   ; rax = rax/10, rdx = rax%10
    add dl, '0'
    mov [rcx], dl
    inc rcx
    test rax, rax
    jnz .loop

    ; rcx now points one past last char
    ; reverse-print
    mov rsi, rcx              ; rsi = end
    dec rsi                   ; last digit
    mov rdx, 1                ; write 1 byte at a time

.rev_loop:
    mov rax, 1                ; write
    mov rdi, 1                ; stdout
    syscall
    dec rsi
    cmp rsi, digitSpace
    jl .newline
    jmp .rev_loop

.newline:
    mov byte [digitSpacePos], 10
    mov rax, 1
    mov rdi, 1
    mov rsi, digitSpacePos
    mov rdx, 1
    syscall
    ret`)
}

// genPrintStringHelper emits the fixed print_string routine (spec.md
// §4.2.5), copied verbatim from codegen.cpp's gen_print_string_function.
// The scan loop never moves rsi after the initial "mov rsi, rdi", so
// by the final write syscall rsi still points at the string's start —
// the operand setup spec.md §4.2.5/§9 asks implementers to verify
// carefully turns out to already be correct, not the bug it warns an
// unfaithful port might introduce.
func (e *emitter) genPrintStringHelper() {
	e.pr(`
print_string:
    ; rdi = char*
    mov rsi, rdi
    xor rdx, rdx

.len_loop:
    cmp byte [rsi + rdx], 0
    je .write
    inc rdx
    jmp .len_loop

.write:
    mov rax, 1      ; sys_write
    mov rdi, 1      ; stdout
    syscall
    ret`)
}
