package demangle_test

import (
	"testing"

	"github.com/xobs/tasru/demangle"
	"github.com/xobs/tasru/test"
)

func TestDemangleLegacyScheme(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"_ZN11my_contract6invoke17h1a2b3c4d5e6f7890E", "my_contract::invoke"},
		{"_ZN11my_contract6client4call17hdeadbeef12345678E", "my_contract::client::call"},
		{"_ZN3foo6ORIGINE", "foo::ORIGIN"},
		{"_ZN11my_contract6invokeE", "my_contract::invoke"},
	}

	for _, tc := range tests {
		test.ExpectEquality(t, demangle.Demangle(tc.input), tc.want)
	}
}

func TestDemangleAlreadyReadable(t *testing.T) {
	for _, input := range []string{"my_contract::invoke", "foo::ORIGIN", "transfer", ""} {
		test.ExpectEquality(t, demangle.Demangle(input), input)
	}
}

func TestDemangleUnknownScheme(t *testing.T) {
	input := "some_unknown_symbol"
	test.ExpectEquality(t, demangle.Demangle(input), input)
}

func TestBuildSymbolTable(t *testing.T) {
	entries := []demangle.SymbolEntry{
		{Index: 0, MangledName: "_ZN11my_contract6invoke17h1a2b3c4d5e6f7890E"},
		{Index: 1, MangledName: "_ZN3foo6ORIGINE"},
	}
	table := demangle.BuildSymbolTable(entries)
	test.ExpectEquality(t, len(table), 2)

	name, ok := table.Lookup(0)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, name, "my_contract::invoke")

	name, ok = table.Lookup(1)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, name, "foo::ORIGIN")

	_, ok = table.Lookup(99)
	test.ExpectFailure(t, ok)
}

func TestBuildSymbolTableNil(t *testing.T) {
	table := demangle.BuildSymbolTable(nil)
	test.ExpectEquality(t, len(table), 0)
}

func TestDemangleTraceReplacesKnownIndex(t *testing.T) {
	table := demangle.BuildSymbolTable([]demangle.SymbolEntry{
		{Index: 0, MangledName: "_ZN11my_contract6invoke17h1a2b3c4d5e6f7890E"},
	})
	got := demangle.DemangleTrace("call func[0] with args", table)
	test.ExpectEquality(t, got, "call my_contract::invoke with args")
}

func TestDemangleTracePreservesUnknownIndex(t *testing.T) {
	table := demangle.BuildSymbolTable([]demangle.SymbolEntry{
		{Index: 0, MangledName: "_ZN3foo6ORIGINE"},
	})
	got := demangle.DemangleTrace("call func[7] next", table)
	test.ExpectEquality(t, got, "call func[7] next")
}

func TestDemangleTraceReplacesMultipleIndices(t *testing.T) {
	table := demangle.BuildSymbolTable([]demangle.SymbolEntry{
		{Index: 0, MangledName: "_ZN11my_contract6invoke17h1a2b3c4d5e6f7890E"},
		{Index: 1, MangledName: "_ZN3foo6ORIGINE"},
	})
	got := demangle.DemangleTrace("func[0] -> func[1] -> func[0]", table)
	test.ExpectEquality(t, got, "my_contract::invoke -> foo::ORIGIN -> my_contract::invoke")
}

func TestDemangleTraceNilTable(t *testing.T) {
	got := demangle.DemangleTrace("call func[0]", nil)
	test.ExpectEquality(t, got, "call func[0]")
}

func TestDemangleTraceNoFuncRefs(t *testing.T) {
	table := demangle.BuildSymbolTable([]demangle.SymbolEntry{
		{Index: 0, MangledName: "_ZN3foo6ORIGINE"},
	})
	got := demangle.DemangleTrace("plain trace line", table)
	test.ExpectEquality(t, got, "plain trace line")
}
