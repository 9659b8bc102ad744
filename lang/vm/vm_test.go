package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (stdout string, err error) {
	t.Helper()
	m := New()
	var buf bytes.Buffer
	m.Stdout = &buf
	err = m.Interpret(src)
	return buf.String(), err
}

func TestPrecedence(t *testing.T) {
	out, err := run(t, "print 2 + 3 * 4;")
	require.NoError(t, err)
	require.Equal(t, "14\n", out)
}

func TestClosureCapturesLoopIterationValue(t *testing.T) {
	out, err := run(t, `
for (var i = 1; i <= 3; i = i + 1) {
  fun f() { print i; }
  if (i == 1) f();
  if (i == 2) f();
  if (i == 3) f();
}`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestMethodBinding(t *testing.T) {
	out, err := run(t, `
class F { m() { print this.x; } }
var f = F();
f.x = "hi";
f.m();`)
	require.NoError(t, err)
	require.Equal(t, "hi\n", out)
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
class A { g() { print "A.g"; } }
class B < A { g() { super.g(); print "B.g"; } }
B().g();`)
	require.NoError(t, err)
	require.Equal(t, "A.g\nB.g\n", out)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, "print x;")
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	require.Equal(t, "Undefined variable 'x'.", rerr.Message)
}

func TestAddTypeErrorMessage(t *testing.T) {
	_, err := run(t, "print true + nil;")
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	require.Equal(t, "Add called with non-number/non-string operands: (Bool(true), Nil)", rerr.Message)
}

func TestArithmeticTypeErrorMessages(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"print nil - nil;", "Sub called on non-number operand(s): (Nil, Nil)"},
		{"print nil * nil;", "Mul called on non-number operand(s): (Nil, Nil)"},
		{"print nil / nil;", "Div called on non-number operand(s): (Nil, Nil)"},
		{"print nil > nil;", "Greater-than called on non-number operand: (Nil, Nil)"},
		{"print nil >= nil;", "Greater-than-or-equal called on non-number operand: (Nil, Nil)"},
		{"print nil < nil;", "Less-than called on non-number operand: (Nil, Nil)"},
		{"print nil <= nil;", "Less-than-or-equal called on non-number operand: (Nil, Nil)"},
	}
	for _, c := range cases {
		_, err := run(t, c.src)
		require.Error(t, err, c.src)
		rerr, ok := err.(*RuntimeError)
		require.True(t, ok, c.src)
		require.Equal(t, c.want, rerr.Message, c.src)
	}
}

func TestClockNativeReturnsFloat(t *testing.T) {
	m := New()
	var buf bytes.Buffer
	m.Stdout = &buf
	require.NoError(t, m.Interpret(`print clock() >= 0;`))
	require.Equal(t, "true\n", buf.String())
}

func TestStringInterningPointerEquality(t *testing.T) {
	m := New()
	a := m.InternString("hello")
	b := m.InternString("hello")
	require.True(t, a == b, "two interned occurrences of the same bytes must be the same object")
}

func TestStackOverflowIsRuntimeError(t *testing.T) {
	_, err := run(t, `
fun recurse() { recurse(); }
recurse();`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	require.Equal(t, "Stack overflow", rerr.Message)
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "not callable")
}

func TestStepExecutesOneInstructionAtATime(t *testing.T) {
	m := New()
	var buf bytes.Buffer
	m.Stdout = &buf

	fn, err := m.Compile("print 1 + 2;")
	require.NoError(t, err)
	require.NoError(t, m.Load(fn))

	require.Equal(t, 0, m.IP())
	require.NotNil(t, m.Chunk())

	for {
		halted, err := m.Step()
		require.NoError(t, err)
		if halted {
			break
		}
	}
	require.Equal(t, "3\n", buf.String())
}

func TestReset(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(`var x = 1;`))
	m.Reset()
	err := m.Interpret("print x;")
	require.Error(t, err, "globals must not survive a reset")
}

func TestGCStressDoesNotCorruptLiveValues(t *testing.T) {
	m := New()
	m.GCStressMode = true
	var buf bytes.Buffer
	m.Stdout = &buf
	err := m.Interpret(`
class Counter {
  init() { this.n = 0; }
  inc() { this.n = this.n + 1; return this.n; }
}
var c = Counter();
print c.inc();
print c.inc();
print c.inc();`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", buf.String())
}
