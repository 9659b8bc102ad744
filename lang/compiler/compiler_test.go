package compiler

import (
	"testing"

	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/value"
	"github.com/stretchr/testify/require"
)

// fakeHeap is a minimal Heap that interns strings in a plain map and tracks
// nothing, sufficient for exercising the compiler in isolation.
type fakeHeap struct {
	interned map[string]*value.String
}

func newFakeHeap() *fakeHeap { return &fakeHeap{interned: map[string]*value.String{}} }

func (h *fakeHeap) InternString(s string) *value.String {
	if existing, ok := h.interned[s]; ok {
		return existing
	}
	str := &value.String{S: s}
	h.interned[s] = str
	return str
}

func (h *fakeHeap) TrackFunction(f *value.Function) {}

func TestCompileSimpleExpression(t *testing.T) {
	fn, err := Compile("print 2 + 3 * 4;", newFakeHeap())
	require.NoError(t, err)
	require.NotNil(t, fn)
	require.Contains(t, fn.Chunk.Code, byte(chunk.Print))
}

func TestCompileConstantDeduplication(t *testing.T) {
	fn, err := Compile(`print 1 + 1; print "hi" + "hi";`, newFakeHeap())
	require.NoError(t, err)

	var floats, strs int
	for _, c := range fn.Chunk.Constants {
		switch c.(type) {
		case value.Float:
			floats++
		case *value.String:
			strs++
		}
	}
	require.Equal(t, 1, floats, "the two literal 1s should share one constant slot")
	require.Equal(t, 1, strs, "the two literal \"hi\"s should share one constant slot")
}

func TestCompileErrorsAccumulateAndResynchronize(t *testing.T) {
	_, err := Compile("print ;\nvar 1 = 2;\nprint 1;", newFakeHeap())
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	require.True(t, len(cerr.Messages) >= 2, "both malformed statements should be reported: %v", cerr.Messages)
}

func TestTopLevelReturnIsCompileError(t *testing.T) {
	_, err := Compile("return 1;", newFakeHeap())
	require.Error(t, err)
	require.Contains(t, err.Error(), "return")
}

func TestThisOutsideClassIsCompileError(t *testing.T) {
	_, err := Compile("print this;", newFakeHeap())
	require.Error(t, err)
	require.Contains(t, err.Error(), "this")
}

func TestSuperOutsideClassIsCompileError(t *testing.T) {
	_, err := Compile("print super.f();", newFakeHeap())
	require.Error(t, err)
	require.Contains(t, err.Error(), "super")
}

func TestUseOfUninitializedLocalIsCompileError(t *testing.T) {
	_, err := Compile("{ var a = a; }", newFakeHeap())
	require.Error(t, err)
}

func TestTooManyConstantsIsCompileError(t *testing.T) {
	var src string
	for i := 0; i < 300; i++ {
		src += "print \"s" + itoa(i) + "\";\n"
	}
	_, err := Compile(src, newFakeHeap())
	require.Error(t, err)
	require.Contains(t, err.Error(), "too many constants")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}
