package fault

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrorUnavailableSurface, "unavailable_surface"},
		{ErrorEmptyClipboard, "empty_clipboard"},
		{ErrorPersistence, "persistence"},
		{ErrorMalformedEntry, "malformed_entry"},
		{ErrorConfig, "config"},
		{ErrorType(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.errType.String())
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "[empty_clipboard] clipboard has no text",
		New(ErrorEmptyClipboard, "", "clipboard has no text", nil).Error())
	assert.Equal(t, "[persistence] save history: write failed: file does not exist",
		New(ErrorPersistence, "save history", "write failed", fs.ErrNotExist).Error())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("restore: %w", New(ErrorPersistence, "load history", "read failed", fs.ErrPermission))

	assert.True(t, Is(err, ErrorPersistence))
	assert.False(t, Is(err, ErrorConfig))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.False(t, Is(errors.New("plain"), ErrorPersistence))
	assert.False(t, Is(nil, ErrorPersistence))
}
