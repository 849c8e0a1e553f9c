package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KeyCode is a DirectX keyboard scan code
type KeyCode uint32

const (
	KeyNone         KeyCode = 0x00
	KeyEscape       KeyCode = 0x01
	Key1            KeyCode = 0x02
	Key2            KeyCode = 0x03
	Key3            KeyCode = 0x04
	Key4            KeyCode = 0x05
	Key5            KeyCode = 0x06
	Key6            KeyCode = 0x07
	Key7            KeyCode = 0x08
	Key8            KeyCode = 0x09
	Key9            KeyCode = 0x0A
	Key0            KeyCode = 0x0B
	KeyMinus        KeyCode = 0x0C
	KeyEquals       KeyCode = 0x0D
	KeyBackspace    KeyCode = 0x0E
	KeyTab          KeyCode = 0x0F
	KeyQ            KeyCode = 0x10
	KeyW            KeyCode = 0x11
	KeyE            KeyCode = 0x12
	KeyR            KeyCode = 0x13
	KeyT            KeyCode = 0x14
	KeyY            KeyCode = 0x15
	KeyU            KeyCode = 0x16
	KeyI            KeyCode = 0x17
	KeyO            KeyCode = 0x18
	KeyP            KeyCode = 0x19
	KeyLeftBracket  KeyCode = 0x1A
	KeyRightBracket KeyCode = 0x1B
	KeyEnter        KeyCode = 0x1C
	KeyLeftControl  KeyCode = 0x1D
	KeyA            KeyCode = 0x1E
	KeyS            KeyCode = 0x1F
	KeyD            KeyCode = 0x20
	KeyF            KeyCode = 0x21
	KeyG            KeyCode = 0x22
	KeyH            KeyCode = 0x23
	KeyJ            KeyCode = 0x24
	KeyK            KeyCode = 0x25
	KeyL            KeyCode = 0x26
	KeySemicolon    KeyCode = 0x27
	KeyApostrophe   KeyCode = 0x28
	KeyTilde        KeyCode = 0x29
	KeyLeftShift    KeyCode = 0x2A
	KeyBackslash    KeyCode = 0x2B
	KeyZ            KeyCode = 0x2C
	KeyX            KeyCode = 0x2D
	KeyC            KeyCode = 0x2E
	KeyV            KeyCode = 0x2F
	KeyB            KeyCode = 0x30
	KeyN            KeyCode = 0x31
	KeyM            KeyCode = 0x32
	KeyComma        KeyCode = 0x33
	KeyPeriod       KeyCode = 0x34
	KeySlash        KeyCode = 0x35
	KeyRightShift   KeyCode = 0x36
	KeyLeftAlt      KeyCode = 0x38
	KeySpacebar     KeyCode = 0x39
	KeyRightControl KeyCode = 0x9D
	KeyRightAlt     KeyCode = 0xB8
	KeyHome         KeyCode = 0xC7
	KeyUp           KeyCode = 0xC8
	KeyLeft         KeyCode = 0xCB
	KeyRight        KeyCode = 0xCD
	KeyEnd          KeyCode = 0xCF
	KeyDown         KeyCode = 0xD0
	KeyInsert       KeyCode = 0xD2
	KeyDelete       KeyCode = 0xD3
)

var keyNames = map[KeyCode]string{
	KeyEscape: "Escape", Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",
	KeyMinus: "Minus", KeyEquals: "Equals", KeyBackspace: "Backspace", KeyTab: "Tab",
	KeyQ: "Q", KeyW: "W", KeyE: "E", KeyR: "R", KeyT: "T", KeyY: "Y", KeyU: "U",
	KeyI: "I", KeyO: "O", KeyP: "P", KeyLeftBracket: "LeftBracket", KeyRightBracket: "RightBracket",
	KeyEnter: "Enter", KeyLeftControl: "LeftControl",
	KeyA: "A", KeyS: "S", KeyD: "D", KeyF: "F", KeyG: "G", KeyH: "H", KeyJ: "J",
	KeyK: "K", KeyL: "L", KeySemicolon: "Semicolon", KeyApostrophe: "Apostrophe",
	KeyTilde: "Tilde", KeyLeftShift: "LeftShift", KeyBackslash: "Backslash",
	KeyZ: "Z", KeyX: "X", KeyC: "C", KeyV: "V", KeyB: "B", KeyN: "N", KeyM: "M",
	KeyComma: "Comma", KeyPeriod: "Period", KeySlash: "Slash", KeyRightShift: "RightShift",
	KeyLeftAlt: "LeftAlt", KeySpacebar: "Spacebar", KeyRightControl: "RightControl",
	KeyRightAlt: "RightAlt", KeyHome: "Home", KeyUp: "Up", KeyLeft: "Left", KeyRight: "Right",
	KeyEnd: "End", KeyDown: "Down", KeyInsert: "Insert", KeyDelete: "Delete",
}

// letterKeys maps 'a'..'z' to their scan codes
var letterKeys = [26]KeyCode{
	KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
	KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
}

var digitKeys = [10]KeyCode{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9}

// String returns the key name, or its hex code when unnamed
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint32(k))
}

// ParseKeyCode accepts a key name ("LeftControl", case-insensitive) or a
// decimal/hex scan code ("29", "0x1D")
func ParseKeyCode(s string) (KeyCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyNone, fmt.Errorf("key cannot be empty")
	}

	for code, name := range keyNames {
		if strings.EqualFold(name, s) {
			return code, nil
		}
	}

	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return KeyNone, fmt.Errorf("unknown key %q", s)
	}
	return KeyCode(n), nil
}

// MarshalText implements encoding.TextMarshaler
func (k KeyCode) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with ParseKeyCode
func (k *KeyCode) UnmarshalText(text []byte) error {
	code, err := ParseKeyCode(string(text))
	if err != nil {
		return err
	}
	*k = code
	return nil
}

// UnmarshalTOML decodes a TOML integer as a raw scan code and a TOML string
// with ParseKeyCode. Integers never go through the name lookup, so 5 is
// scan code 0x05 and not the "5" key.
func (k *KeyCode) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case int64:
		if v < 0 || v > math.MaxUint32 {
			return fmt.Errorf("scan code out of range: %d", v)
		}
		*k = KeyCode(v)
		return nil
	case string:
		return k.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("key must be a scan code or a key name, got %T", value)
	}
}

// KeyForRune returns the scan code that produces r on a US layout
func KeyForRune(r rune) (KeyCode, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return letterKeys[r-'a'], true
	case r >= 'A' && r <= 'Z':
		return letterKeys[r-'A'], true
	case r >= '0' && r <= '9':
		return digitKeys[r-'0'], true
	}

	switch r {
	case ' ':
		return KeySpacebar, true
	case '-', '_':
		return KeyMinus, true
	case '=', '+':
		return KeyEquals, true
	case '[', '{':
		return KeyLeftBracket, true
	case ']', '}':
		return KeyRightBracket, true
	case ';', ':':
		return KeySemicolon, true
	case '\'', '"':
		return KeyApostrophe, true
	case '`', '~':
		return KeyTilde, true
	case '\\', '|':
		return KeyBackslash, true
	case ',', '<':
		return KeyComma, true
	case '.', '>':
		return KeyPeriod, true
	case '/', '?':
		return KeySlash, true
	}
	return KeyNone, false
}
