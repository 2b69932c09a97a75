// Package trace reads cache trace scripts and drives a cache.Engine with
// them.
//
// A trace script starts with a three-line header (set count, line size and
// organization code) followed by one command per line:
//
//	l <addr>  load
//	s <addr>  store
//	v         toggle verbose output
//	p         print the cache contents
//	h         print the hit rate
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// headerLines is the number of lines before the first command.
const headerLines = 3

// Kind identifies a trace command.
type Kind byte

// Command kinds, named by their token in the script.
const (
	Load          Kind = 'l'
	Store         Kind = 's'
	ToggleVerbose Kind = 'v'
	PrintHitRate  Kind = 'h'
	PrintState    Kind = 'p'
)

func (k Kind) String() string {
	return string(k)
}

// takesAddress reports whether the command needs an address argument.
func (k Kind) takesAddress() bool {
	return k == Load || k == Store
}

func parseKind(token string) (Kind, bool) {
	if len(token) != 1 {
		return 0, false
	}

	switch k := Kind(token[0]); k {
	case Load, Store, ToggleVerbose, PrintHitRate, PrintState:
		return k, true
	default:
		return 0, false
	}
}

// Command is one parsed line of a trace script.
type Command struct {
	Kind    Kind
	Address uint64
	// Line is the 1-based line number in the script, header included.
	Line int
}

// Header holds the cache parameters declared at the top of a script.
type Header struct {
	SetCount     int
	LineSize     int
	Organization cache.Organization
}

// Geometry returns the cache geometry the header describes.
func (h Header) Geometry() cache.Geometry {
	return h.Organization.Geometry(h.SetCount, h.LineSize)
}

// File is a parsed trace script.
type File struct {
	Header   Header
	Commands []Command
}

// NewEngine creates an engine configured by the header.
func (f *File) NewEngine(opts ...cache.Option) (*cache.Engine, error) {
	return cache.New(
		f.Header.SetCount, f.Header.LineSize, f.Header.Organization, opts...)
}

// LoadFile reads and parses the trace script at path.
func LoadFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't find tracefile: %w", err)
	}
	defer func() { _ = fd.Close() }()

	return Parse(fd)
}

// Parse reads a trace script. Geometry problems are reported as
// *cache.ConfigError, an unknown organization as
// *cache.UnknownOrganizationError and bad commands as
// *MalformedCommandError.
func Parse(r io.Reader) (*File, error) {
	scanner := bufio.NewScanner(r)

	var header [headerLines]string
	for i := range header {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read trace header: %w", err)
			}

			return nil, &HeaderError{Line: i + 1, Reason: "missing"}
		}

		header[i] = firstToken(scanner.Text())
	}

	h, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	f := &File{Header: h}

	lineNo := headerLines
	for scanner.Scan() {
		lineNo++

		cmd, ok, err := parseCommand(scanner.Text(), lineNo)
		if err != nil {
			return nil, err
		}

		if ok {
			f.Commands = append(f.Commands, cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace commands: %w", err)
	}

	return f, nil
}

func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

func parseHeader(lines [headerLines]string) (Header, error) {
	setCount, err := parseHeaderInt(lines[0], "set count", 1)
	if err != nil {
		return Header{}, err
	}

	lineSize, err := parseHeaderInt(lines[1], "line size", 2)
	if err != nil {
		return Header{}, err
	}

	// Set count and line size are checked before the organization code.
	plain := cache.Geometry{SetCount: setCount, LineSize: lineSize, Associativity: 1}
	if err := plain.Validate(); err != nil {
		return Header{}, err
	}

	org, err := cache.ParseOrganization(lines[2])
	if err != nil {
		return Header{}, err
	}

	h := Header{SetCount: setCount, LineSize: lineSize, Organization: org}
	if err := h.Geometry().Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}

func parseHeaderInt(token, field string, line int) (int, error) {
	if token == "" {
		return 0, &HeaderError{Line: line, Reason: field + " is missing"}
	}

	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, &HeaderError{
			Line:   line,
			Reason: fmt.Sprintf("%s %q is not an integer", field, token),
		}
	}

	return v, nil
}

// parseCommand parses one command line. It returns false for blank lines.
func parseCommand(line string, lineNo int) (Command, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false, nil
	}

	kind, ok := parseKind(fields[0])
	if !ok {
		return Command{}, false, &MalformedCommandError{
			Line:   lineNo,
			Token:  fields[0],
			Reason: "is incorrect",
		}
	}

	cmd := Command{Kind: kind, Line: lineNo}
	if !kind.takesAddress() {
		return cmd, true, nil
	}

	if len(fields) < 2 {
		return Command{}, false, &MalformedCommandError{
			Line:   lineNo,
			Token:  fields[0],
			Reason: "is missing its address",
		}
	}

	addr, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Command{}, false, &MalformedCommandError{
			Line:   lineNo,
			Token:  fields[0],
			Reason: fmt.Sprintf("has an invalid address %q", fields[1]),
		}
	}

	cmd.Address = addr

	return cmd, true, nil
}
