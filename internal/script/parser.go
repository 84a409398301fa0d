// Package script parses and runs line-oriented allocator scripts.
//
// Script format, one command per line:
//
//	# comment
//	init [total]        re-initialize (optionally with a new total in KB)
//	static              allocate the static region for the system
//	spawn <size>        allocate size KB for the next process id
//	alloc <owner> <size> allocate size KB for an explicit owner (3, P3, system)
//	free <owner>        release every block held by owner
//	coalesce            merge adjacent free blocks
//	stats | map | blocks | check
//
// Blank lines and lines starting with '#' are ignored. Keywords are
// case-insensitive.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/joshuapare/memsim/mem/alloc"
)

const (
	// CommentPrefix starts a comment line.
	CommentPrefix = "#"

	scannerInitialBufferSize = 4 * 1024
	scannerMaxLineSize       = 64 * 1024
)

// Encoding names the byte encoding of a script.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin1"
)

// ParseEncoding maps a user-supplied name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "windows-1252", "cp1252":
		return EncodingLatin1, nil
	default:
		return "", fmt.Errorf("unknown encoding %q (supported: utf-8, latin1)", name)
	}
}

// Op is a script command.
type Op int

const (
	OpInit Op = iota
	OpStatic
	OpSpawn
	OpAlloc
	OpFree
	OpCoalesce
	OpStats
	OpMap
	OpBlocks
	OpCheck
)

var opNames = map[string]Op{
	"init":     OpInit,
	"static":   OpStatic,
	"spawn":    OpSpawn,
	"alloc":    OpAlloc,
	"free":     OpFree,
	"coalesce": OpCoalesce,
	"stats":    OpStats,
	"map":      OpMap,
	"blocks":   OpBlocks,
	"check":    OpCheck,
}

func (o Op) String() string {
	for name, op := range opNames {
		if op == o {
			return name
		}
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Command is one parsed script line.
type Command struct {
	Line  int
	Op    Op
	Owner alloc.Owner // alloc, free
	Size  int         // spawn, alloc, init (0 = keep the configured total)
}

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("script: syntax error")

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

// Parse reads a whole script. Scripts in EncodingLatin1 are decoded to UTF-8
// first. Parsing stops at the first malformed line.
func Parse(r io.Reader, enc Encoding) ([]Command, error) {
	if enc == EncodingLatin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, scannerInitialBufferSize)
	scanner.Buffer(buf, scannerMaxLineSize)

	var cmds []Command
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		cmd, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Msg: err.Error()}
		}
		cmd.Line = lineNo
		cmds = append(cmds, cmd)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning script: %w", err)
	}
	return cmds, nil
}

// ParseLine parses a single non-comment line. The returned Command has no
// line number.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.New("empty command")
	}

	op, ok := opNames[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	args := fields[1:]
	cmd := Command{Op: op}

	var err error
	switch op {
	case OpInit:
		if err = wantArgs(args, 0, 1); err == nil && len(args) == 1 {
			if cmd.Size, err = parseSize(args[0]); err == nil && cmd.Size <= 0 {
				err = fmt.Errorf("total must be > 0, got %d", cmd.Size)
			}
		}
	case OpSpawn:
		if err = wantArgs(args, 1, 1); err == nil {
			cmd.Size, err = parseSize(args[0])
		}
	case OpAlloc:
		if err = wantArgs(args, 2, 2); err == nil {
			if cmd.Owner, err = ParseOwner(args[0]); err == nil {
				cmd.Size, err = parseSize(args[1])
			}
		}
	case OpFree:
		if err = wantArgs(args, 1, 1); err == nil {
			cmd.Owner, err = ParseOwner(args[0])
		}
	default:
		err = wantArgs(args, 0, 0)
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// ParseOwner accepts "system", a process id ("3") or a prefixed id ("P3").
// Negative ids parse; the allocator rejects them.
func ParseOwner(s string) (alloc.Owner, error) {
	if strings.EqualFold(s, "system") {
		return alloc.System, nil
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "P"), "p")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid owner %q", s)
	}
	return alloc.Process(n), nil
}

// parseSize parses an integer size. Range checks belong to the allocator.
func parseSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.ToUpper(s), "KB"))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n, nil
}

func wantArgs(args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("expected %d argument(s), got %d", lo, len(args))
		}
		return fmt.Errorf("expected %d to %d arguments, got %d", lo, hi, len(args))
	}
	return nil
}
