package termio

// Key is a symbolic keystroke name accepted by Session.WriteKey.
type Key string

const (
	KeyEnter Key = "Enter"
	KeyTab   Key = "Tab"
	KeyEsc   Key = "Esc"
	KeyUp    Key = "Up"
	KeyDown  Key = "Down"
	KeyRight Key = "Right"
	KeyLeft  Key = "Left"
)

var keyBytes = map[Key][]byte{
	KeyEnter: {'\r'},
	KeyTab:   {'\t'},
	KeyEsc:   {0x1b},
	KeyUp:    {0x1b, '[', 'A'},
	KeyDown:  {0x1b, '[', 'B'},
	KeyRight: {0x1b, '[', 'C'},
	KeyLeft:  {0x1b, '[', 'D'},
}

// keyToBytes maps a symbolic key name to its byte sequence. Unknown names
// pass through literally, letting callers write a single printable
// character (e.g. "2") through the same path as named keys.
func keyToBytes(k Key) []byte {
	if b, ok := keyBytes[k]; ok {
		return b
	}
	return []byte(k)
}
