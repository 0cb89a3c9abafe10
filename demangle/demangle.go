// Package demangle translates mangled Rust symbol names into their
// human-readable path form. It implements the legacy ("v0-predecessor")
// scheme: "_ZN" <length-prefixed path segments> ["17h" <16 hex digit hash>]
// "E", for example "_ZN11my_contract6invoke17h1a2b3c4d5e6f7890E" becomes
// "my_contract::invoke".
//
// Demangling is a pure function: it never touches a DebugInfo, a reader, or
// any other part of this module's state. It exists so that variables can be
// looked up by their linkage name's demangled form.
package demangle

import (
	"strconv"
	"strings"
)

// Demangle converts a single mangled symbol to its path form. Strings that
// do not match the legacy scheme are returned unchanged, including already
// human-readable names and the empty string.
func Demangle(mangled string) string {
	const prefix = "_ZN"
	const suffix = "E"

	if len(mangled) < len(prefix)+len(suffix) || mangled[:len(prefix)] != prefix || mangled[len(mangled)-1:] != suffix {
		return mangled
	}

	body := mangled[len(prefix) : len(mangled)-1]

	segments, ok := splitLengthPrefixed(body)
	if !ok || len(segments) == 0 {
		return mangled
	}

	// a trailing segment of the form "h<hex>" preceded by a two-digit
	// length of 17 is the compiler-generated disambiguation hash, and is
	// dropped from the demangled path.
	if last := segments[len(segments)-1]; len(last) == 17 && last[0] == 'h' {
		if _, err := strconv.ParseUint(last[1:], 16, 64); err == nil {
			segments = segments[:len(segments)-1]
		}
	}

	if len(segments) == 0 {
		return mangled
	}

	out := segments[0]
	for _, s := range segments[1:] {
		out += "::" + s
	}
	return out
}

// DemangleSymbol is an alias of Demangle, matching the naming used by
// external callers that annotate a single symbol at a time.
func DemangleSymbol(mangled string) string {
	return Demangle(mangled)
}

// splitLengthPrefixed parses the "<len><name>" run that follows "_ZN" in
// the legacy mangling scheme, e.g. "11my_contract6invoke" -> ["my_contract",
// "invoke"].
func splitLengthPrefixed(body string) ([]string, bool) {
	var segments []string

	for len(body) > 0 {
		digits := 0
		for digits < len(body) && body[digits] >= '0' && body[digits] <= '9' {
			digits++
		}
		if digits == 0 {
			return nil, false
		}

		n, err := strconv.Atoi(body[:digits])
		if err != nil || n < 0 {
			return nil, false
		}

		body = body[digits:]
		if n > len(body) {
			return nil, false
		}

		segments = append(segments, body[:n])
		body = body[n:]
	}

	return segments, true
}

// SymbolEntry is one raw (index, mangled-name) pair, as might be read from a
// binary's symbol table prior to batch demangling.
type SymbolEntry struct {
	Index       int
	MangledName string
}

// SymbolTable maps a symbol index to its mangled name, as produced by
// BuildSymbolTable. Lookups that demangle by index go through this table
// rather than re-demangling on every access.
type SymbolTable map[int]string

// BuildSymbolTable collects a batch of symbol entries into a SymbolTable.
// A nil or empty entries slice yields an empty, non-nil table.
func BuildSymbolTable(entries []SymbolEntry) SymbolTable {
	table := make(SymbolTable, len(entries))
	for _, e := range entries {
		table[e.Index] = e.MangledName
	}
	return table
}

// Lookup returns the demangled form of the symbol at index, and whether an
// entry was present at all.
func (t SymbolTable) Lookup(index int) (string, bool) {
	mangled, ok := t[index]
	if !ok {
		return "", false
	}
	return Demangle(mangled), true
}

// DemangleTrace rewrites every "func[N]" reference found in s to the
// demangled name of symbol N in table, for annotating a call trace that
// refers to functions by raw index. A reference to an index absent from
// table is left untouched. A nil or empty table returns s unchanged.
func DemangleTrace(s string, table SymbolTable) string {
	if len(table) == 0 || !strings.Contains(s, "func[") {
		return s
	}

	var out strings.Builder
	for {
		start := strings.Index(s, "func[")
		if start < 0 {
			out.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start:], ']')
		if end < 0 {
			out.WriteString(s)
			break
		}
		end += start

		out.WriteString(s[:start])

		indexStr := s[start+len("func[") : end]
		index, err := strconv.Atoi(indexStr)
		switch {
		case err != nil:
			out.WriteString(s[start : end+1])
		default:
			if name, ok := table.Lookup(index); ok {
				out.WriteString(name)
			} else {
				out.WriteString(s[start : end+1])
			}
		}

		s = s[end+1:]
	}

	return out.String()
}
