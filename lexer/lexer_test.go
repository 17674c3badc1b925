package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsix/parsix/fsm"
	"github.com/parsix/parsix/lexer"
	"github.com/parsix/parsix/symbol"
)

const (
	tID symbol.Terminal = iota + symbol.TerminalMin
	tPlus
)

// identMachine recognizes a maximal run of lowercase letters:
// state 1 --[a-z]--> state 2 --[a-z]--> state 2 (final), plus a
// single-byte '+' path via a second start transition.
func identMachine(t *testing.T) *fsm.Machine {
	t.Helper()
	table := fsm.NewTable()
	for c := byte('a'); c <= 'z'; c++ {
		table.Add(1, c, 2)
		table.Add(2, c, 2)
	}
	table.Add(1, '+', 3)
	m, err := fsm.New(table, fsm.NewStateSet(2, 3), fsm.PlainNFA)
	require.NoError(t, err)
	return m
}

func factory(final fsm.State, lexeme []byte) symbol.Token {
	if final == 3 {
		return symbol.Token{Name: tPlus, Attribute: lexeme}
	}
	return symbol.Token{Name: tID, Attribute: lexeme}
}

func TestNextStripsWhitespaceByDefault(t *testing.T) {
	l := lexer.New(identMachine(t), factory, []byte("  foo   bar"))

	r1, err := l.Next(lexer.Default)
	require.NoError(t, err)
	assert.True(t, r1.Found)
	assert.Equal(t, tID, r1.Token.Name)
	assert.Equal(t, "foo", string(r1.Token.Attribute))

	r2, err := l.Next(lexer.Default)
	require.NoError(t, err)
	assert.Equal(t, "bar", string(r2.Token.Attribute))
}

func TestNextReturnsEOFSentinelOnEmptyInput(t *testing.T) {
	l := lexer.New(identMachine(t), factory, []byte("   "))
	r, err := l.Next(lexer.Default)
	require.NoError(t, err)
	assert.True(t, r.Found)
	assert.True(t, r.Token.IsEOF())
}

func TestNextNotFoundIsNonDestructive(t *testing.T) {
	l := lexer.New(identMachine(t), factory, []byte("123"))
	r1, err := l.Next(lexer.Default)
	require.NoError(t, err)
	assert.False(t, r1.Found)

	// Nothing was consumed: scanning again reproduces the same result.
	r2, err := l.Next(lexer.Default)
	require.NoError(t, err)
	assert.False(t, r2.Found)
}

func TestPeekDoesNotConsumeLexeme(t *testing.T) {
	l := lexer.New(identMachine(t), factory, []byte("foo bar"))

	peeked, err := l.Peek(lexer.Default)
	require.NoError(t, err)
	assert.Equal(t, "foo", string(peeked.Token.Attribute))

	next, err := l.Next(lexer.Default)
	require.NoError(t, err)
	assert.Equal(t, "foo", string(next.Token.Attribute))
}

func TestAllowWhitespaceKeepsWhitespaceInInput(t *testing.T) {
	table := fsm.NewTable()
	for _, c := range []byte(" foo") {
		table.Add(1, c, 2)
		table.Add(2, c, 2)
	}
	m, err := fsm.New(table, fsm.NewStateSet(2), fsm.PlainNFA)
	require.NoError(t, err)

	l := lexer.New(m, factory, []byte(" foo"))
	r, err := l.Next(lexer.AllowWhitespace)
	require.NoError(t, err)
	assert.True(t, r.Found)
	assert.Equal(t, " foo", string(r.Token.Attribute))
}

func TestAllowNewlinePassesNewlineThrough(t *testing.T) {
	l := lexer.New(identMachine(t), factory, []byte("\nfoo"))
	r, err := l.Next(lexer.AllowNewline)
	require.NoError(t, err)
	// The leading \n was not stripped (AllowNewline keeps newlines), so
	// the FSM fails to match starting there and reports not-found.
	assert.False(t, r.Found)
}
