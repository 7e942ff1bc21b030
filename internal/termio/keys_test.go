package termio

import (
	"bytes"
	"testing"
)

func TestKeyToBytesNamedKeys(t *testing.T) {
	cases := map[Key][]byte{
		KeyEnter: {'\r'},
		KeyTab:   {'\t'},
		KeyEsc:   {0x1b},
		KeyUp:    {0x1b, '[', 'A'},
		KeyDown:  {0x1b, '[', 'B'},
		KeyRight: {0x1b, '[', 'C'},
		KeyLeft:  {0x1b, '[', 'D'},
	}
	for k, want := range cases {
		if got := keyToBytes(k); !bytes.Equal(got, want) {
			t.Errorf("keyToBytes(%q) = %v, want %v", k, got, want)
		}
	}
}

func TestKeyToBytesPassthroughForUnknown(t *testing.T) {
	if got, want := keyToBytes(Key("2")), []byte("2"); !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
