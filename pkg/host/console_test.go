package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consoleplus/pkg/fault"
)

func typeInto(c *Console, s string) {
	for _, r := range s {
		c.InsertRune(r)
	}
}

func TestConsole_SurfaceOnlyWhileOpen(t *testing.T) {
	c := NewConsole(nil)

	_, ok := c.Surface()
	assert.False(t, ok)

	c.Open()
	surface, ok := c.Surface()
	require.True(t, ok)
	assert.NotNil(t, surface)

	c.Close()
	_, ok = c.Surface()
	assert.False(t, ok)
}

func TestConsole_TextAndCaretVariables(t *testing.T) {
	c := NewConsole(nil)
	c.Open()
	typeInto(c, "tgm")

	text, err := c.GetText(CommandEntryTextPath)
	require.NoError(t, err)
	assert.Equal(t, "tgm", text)

	caret, err := c.GetUint(CommandEntryCaretPath)
	require.NoError(t, err)
	assert.Equal(t, uint(3), caret)

	require.NoError(t, c.SetText(CommandEntryTextPath, "t"))
	caret, err = c.GetUint(CommandEntryCaretPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), caret, "caret is clamped to the new text")
}

func TestConsole_UnknownPaths(t *testing.T) {
	c := NewConsole(nil)

	_, err := c.GetText("_global.Nope")
	assert.True(t, fault.Is(err, fault.ErrorUnavailableSurface))

	_, err = c.GetUint(CommandEntryTextPath)
	assert.True(t, fault.Is(err, fault.ErrorUnavailableSurface))

	_, err = c.GetArray(CommandEntryTextPath)
	assert.True(t, fault.Is(err, fault.ErrorUnavailableSurface))

	err = c.Invoke("Selection.nope", 1, 1)
	assert.True(t, fault.Is(err, fault.ErrorUnavailableSurface))
}

func TestConsole_SetSelectionMovesCaret(t *testing.T) {
	c := NewConsole(nil)
	typeInto(c, "player.additem")

	require.NoError(t, c.Invoke(SetSelectionMethod, uint(6), uint(6)))
	assert.Equal(t, 6, c.Snapshot().Caret)

	require.NoError(t, c.Invoke(SetSelectionMethod, 100, 100))
	assert.Equal(t, 14, c.Snapshot().Caret)

	assert.Error(t, c.Invoke(SetSelectionMethod, 1))
	assert.Error(t, c.Invoke(SetSelectionMethod, "a", 1))
}

func TestConsole_ArrayIsCopied(t *testing.T) {
	c := NewConsole(nil)
	values := []any{"tgm", "tcl"}
	require.NoError(t, c.SetArray(CommandsPath, values))

	values[0] = "changed"
	got, err := c.GetArray(CommandsPath)
	require.NoError(t, err)
	assert.Equal(t, []any{"tgm", "tcl"}, got)

	got[1] = "changed"
	assert.Equal(t, []string{"tgm", "tcl"}, c.Snapshot().Commands)
}

func TestConsole_Editing(t *testing.T) {
	c := NewConsole(nil)
	typeInto(c, "abcd")

	c.MoveCaret(-2)
	c.Backspace()
	assert.Equal(t, "acd", c.Snapshot().Text)
	assert.Equal(t, 1, c.Snapshot().Caret)

	c.Delete()
	assert.Equal(t, "ad", c.Snapshot().Text)

	c.Home()
	c.Backspace()
	assert.Equal(t, "ad", c.Snapshot().Text)
	c.InsertRune('x')
	assert.Equal(t, "xad", c.Snapshot().Text)

	c.End()
	c.Delete()
	assert.Equal(t, "xad", c.Snapshot().Text)
	assert.Equal(t, 3, c.Snapshot().Caret)

	c.MoveCaret(-10)
	assert.Equal(t, 0, c.Snapshot().Caret)
}

func TestConsole_Browse(t *testing.T) {
	c := NewConsole(nil)
	c.Open()
	require.NoError(t, c.SetArray(CommandsPath, []any{"first", "second"}))

	c.Browse(1)
	assert.Empty(t, c.Snapshot().Text, "newer with nothing browsed does nothing")

	c.Browse(-1)
	assert.Equal(t, "second", c.Snapshot().Text)
	c.Browse(-1)
	assert.Equal(t, "first", c.Snapshot().Text)
	c.Browse(-1)
	assert.Equal(t, "first", c.Snapshot().Text)
	assert.Equal(t, 5, c.Snapshot().Caret)

	c.Browse(1)
	assert.Equal(t, "second", c.Snapshot().Text)
	c.Browse(1)
	assert.Empty(t, c.Snapshot().Text)
}

func TestConsole_SubmitRecordsAndRunsCommands(t *testing.T) {
	commands := NewCommands()
	var gotArgs []string
	require.NoError(t, commands.RegisterCommand("Echo", "", func(args []string) error {
		gotArgs = args
		return nil
	}))
	require.NoError(t, commands.RegisterCommand("Fail", "", func([]string) error {
		return errors.New("nope")
	}))

	c := NewConsole(commands)
	c.Open()

	typeInto(c, "echo a b")
	c.Submit()
	assert.Equal(t, []string{"a", "b"}, gotArgs)

	typeInto(c, "fail")
	c.Submit()

	typeInto(c, "tgm")
	c.Submit()

	c.Submit() // empty entry is ignored

	snap := c.Snapshot()
	assert.Equal(t, []string{"echo a b", "fail", "tgm"}, snap.Commands)
	assert.Empty(t, snap.Text)
	assert.Equal(t, []string{
		"> echo a b",
		"> fail",
		"fail: nope",
		"> tgm",
		`Script command "tgm" not found.`,
	}, snap.Output)
}

func TestConsole_OutputIsBounded(t *testing.T) {
	c := NewConsole(nil)
	for i := 0; i < maxOutputLines+10; i++ {
		c.Print("line")
	}
	assert.Len(t, c.Snapshot().Output, maxOutputLines)
}
