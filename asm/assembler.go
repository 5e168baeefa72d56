// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm implements a macro assembler for Intcode programs.
//
// Each line holds optional labels, then one instruction or directive:
//
//	loop:   in  %0            ; relative mode operand
//	        add %0 #1 %0      ; immediate mode operand
//	        out %0
//	        jnz #1 #loop      ; labels resolve to addresses
//	value:  .data 0 'a' $(OP_ADD * 10)
//	msg:    .string "hello\n"
//
// Operands without a prefix are position mode. Equates (.equ), macros
// (.macro/.endm), character literals and $(...) expressions evaluated with
// Starlark are supported.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/internal"
	"github.com/ezrec/intcode/machine"
	"github.com/ezrec/intcode/program"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Opcode represents a line of assembled code with its source location and
// generated cells.
type Opcode struct {
	LineNo int            // Source line.
	Ip     int            // Address of the first cell.
	Words  []string       // Source words.
	Codes  []int64        // Generated cells.
	Links  map[int]string // Cells to patch with a label address, by index.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler with a final link step.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansion int // Count of macro expansions, for '@' local labels.
}

// Predefine defines a new equate or redefines an existing equate, applied
// at the start of every Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// mnemonicMap maps instruction mnemonics to opcodes.
var mnemonicMap = map[string]machine.Opcode{}

func init() {
	for _, op := range machine.Opcodes {
		mnemonicMap[op.String()] = op
	}
}

var (
	reLabel     = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.]*)([+-][0-9]+)?$`)
	reCharacter = regexp.MustCompile(`'(\\.|[^'\\]+)'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
	reString    = regexp.MustCompile(`^((?:[^\s"]+:\s*)*)\.string\s+(".*")$`)
)

// valueOf returns the value of a simple word, expanding equates.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	for range 16 {
		equate, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = equate
	}
	if _, ok := asm.Equate[word]; ok {
		err = ErrEquateLoop
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// operand decodes a single parameter into its mode and value. Words that
// name a label are returned as a link to resolve after assembly.
func (asm *Assembler) operand(word string) (mode machine.Mode, value int64, link string, err error) {
	mode = machine.MODE_POSITION
	switch {
	case strings.HasPrefix(word, "#"):
		mode = machine.MODE_IMMEDIATE
		word = word[1:]
	case strings.HasPrefix(word, "%"):
		mode = machine.MODE_RELATIVE
		word = word[1:]
	}

	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if reLabel.MatchString(word) {
		err = nil
		link = word
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for label, ip := range asm.Label {
		if _, ok := pred[label]; !ok {
			pred[label] = starlark.MakeInt(ip)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// character expands a quoted character literal to its code point.
func character(quoted string) (value int64, err error) {
	str := quoted[1 : len(quoted)-1]
	if str[0] == '\\' {
		switch str[1:] {
		case "\\":
			str = "\\"
		case "'":
			str = "'"
		case "n":
			str = "\n"
		case "r":
			str = "\r"
		case "t":
			str = "\t"
		case "e":
			str = "\033"
		case "0":
			str = "\000"
		default:
			err = ErrParseCharacter(str)
			return
		}
	}

	r, size := utf8.DecodeRuneInString(str)
	if r == utf8.RuneError || size != len(str) {
		err = ErrParseCharacter(str)
		return
	}

	value = int64(r)
	return
}

// stripComment removes a ';' comment, ignoring ';' in quotes.
func stripComment(text string) string {
	var quote rune
	escaped := false
	for n, r := range text {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != 0:
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ';':
			return text[:n]
		}
	}
	return text
}

// defineLabel records a label at the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	if !reLabel.MatchString(label) || strings.ContainsAny(label, "+-") {
		err = ErrLabelInvalid
		return
	}

	_, ok := asm.Label[label]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	asm.Label[label] = asm.currentIp()

	if asm.Verbose {
		log.Printf("asm: label %v = %v", label, asm.Label[label])
	}

	return
}

// parseString assembles a .string directive, one cell per code point.
func (asm *Assembler) parseString(labels string, quoted string, lineno int) (err error) {
	for _, label := range strings.Fields(labels) {
		err = asm.defineLabel(strings.TrimSuffix(label, ":"))
		if err != nil {
			return
		}
	}

	text, err := strconv.Unquote(quoted)
	if err != nil {
		err = ErrStringSyntax
		return
	}

	var codes []int64
	for _, r := range text {
		codes = append(codes, int64(r))
	}

	if len(codes) > 0 {
		asm.Opcode = append(asm.Opcode, Opcode{
			LineNo: lineno,
			Ip:     asm.currentIp(),
			Words:  []string{".string", quoted},
			Codes:  codes,
		})
	}

	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// .string is taken verbatim.
	if match := reString.FindStringSubmatch(line); match != nil {
		err = asm.parseString(match[1], match[2], lineno)
		return
	}

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		value, _err := character(word)
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		err = asm.defineLabel(words[0][:len(words[0])-1])
		if err != nil {
			return
		}
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Substitute equates into operands.
	for n, word := range words[1:] {
		prefix := ""
		if strings.HasPrefix(word, "#") || strings.HasPrefix(word, "%") {
			prefix, word = word[:1], word[1:]
		}
		equate, ok := asm.Equate[word]
		if ok {
			words[1+n] = prefix + equate
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}
		words = nil
		return
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Codes)
}

// Parse parses an input stream into a linked Program.
func (asm *Assembler) Parse(input io.Reader) (prog *program.Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.expansion = 0
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Collect(internal.IterSeq2Concat(
		maps.All(sysEquate),
		machine.Defines(),
		maps.All(asm.predefine),
	))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	prog = &program.Program{
		LineNo: make(map[int64]int, len(asm.Opcode)),
		Label:  maps.Clone(asm.Label),
	}
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		for index, link := range op.Links {
			match := reLabel.FindStringSubmatch(link)
			ip, ok := asm.Label[match[1]]
			if !ok {
				err = ErrLabelMissing(match[1])
				prog = nil
				return
			}
			offset := int64(0)
			if len(match[2]) > 0 {
				offset, _ = strconv.ParseInt(match[2], 10, 64)
			}
			op.Codes[index] = int64(ip) + offset
		}

		prog.LineNo[int64(op.Ip)] = op.LineNo
		prog.Codes = append(prog.Codes, op.Codes...)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []int64
	var links map[int]string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Codes: codes, Links: links}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Alternate syntax substitutions
	switch {
	case len(words) == 2 && words[0] == "jmp":
		// jmp TARGET => jnz #1 TARGET
		words = []string{"jnz", "#1", words[1]}
	default:
		// unchanged
	}

	link := func(index int, label string) {
		if len(label) == 0 {
			return
		}
		if links == nil {
			links = make(map[int]string)
		}
		links[index] = label
	}

	if words[0] == ".data" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, word := range words[1:] {
			var value int64
			var label string
			_, value, label, err = asm.operand(word)
			if err != nil {
				codes = nil
				return
			}
			codes = append(codes, value)
			link(n, label)
		}
		return
	}

	op, ok := mnemonicMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Params() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Params() {
		err = ErrOpcodeExtraArgs
		return
	}

	modes := make([]machine.Mode, len(args))
	params := make([]int64, len(args))
	for n, arg := range args {
		var label string
		modes[n], params[n], label, err = asm.operand(arg)
		if err != nil {
			return
		}
		if n+1 == op.Writes() && modes[n] == machine.MODE_IMMEDIATE {
			err = ErrTargetImmediate
			return
		}
		link(1+n, label)
	}

	codes = append(codes, int64(machine.MakeCode(op, modes...)))
	codes = append(codes, params...)

	return
}

// Parse assembles source text into a program.
func Parse(text string) (prog *program.Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(text))
}

// Mnemonics returns the instruction mnemonics, sorted.
func Mnemonics() []string {
	return slices.Sorted(maps.Keys(mnemonicMap))
}
