package vlq

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"runtime"
	"slices"
	"testing"

	"golang.org/x/exp/constraints"
)

//region Testing Helpers

// readTestCase represents a single reading test case for type T.
type readTestCase[T constraints.Unsigned] struct {
	data       []byte // input
	extraBytes int    // number of extra bytes after VLQ
	want       T      // expected output
	wantErr    error  // expected error
}

// testRead asserts that decoding a VLQ using f from tc.data produces the expected results.
func testRead[T constraints.Unsigned](t *testing.T, f func(io.ByteReader) (T, error), tc readTestCase[T]) {
	t.Helper()
	fName := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()

	r := bytes.NewReader(tc.data)
	got, err := f(r)
	if !errors.Is(err, tc.wantErr) {
		t.Fatalf("%s(%# x) error = %v, wantErr %v", fName, tc.data, err, tc.wantErr)
	}
	if err != nil {
		return
	}
	if got != tc.want {
		t.Errorf("%s(%# x) got = %v, want %v", fName, tc.data, got, tc.want)
	}
	if r.Len() != tc.extraBytes {
		t.Errorf("%s(%# x) extra bytes = %d, want %d", fName, tc.data, r.Len(), tc.extraBytes)
	}
}

//endregion

//region Read Tests

func TestReadMinimal(t *testing.T) {
	tests := map[string]readTestCase[uint]{
		"Zero":          {[]byte{0x00}, 0, 0, nil},
		"SingleByte":    {[]byte{0x05}, 0, 5, nil},
		"MultiByte":     {[]byte{0x85, 0x01, 0x00}, 1, 641, nil},
		"EOF":           {nil, 0, 0, io.EOF},
		"UnexpectedEOF": {[]byte{0x81, 0x80}, 0, 0, io.ErrUnexpectedEOF},
		"NonMinimal":    {[]byte{0x80, 0x85, 0x01}, 0, 0, ErrNotMinimal},
		"Overflow":      {[]byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 0, 0, ErrOverflow}, // assumes uint size of 8 bytes (64 bit architecture)
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, ReadMinimal[uint], tc)
		})
	}
}

func TestReadMinimal8(t *testing.T) {
	tests := map[string]readTestCase[uint8]{
		"SingleByte": {[]byte{0x05}, 0, 5, nil},
		"Largest":    {[]byte{0x81, 0x7f}, 0, 255, nil},
		"Overflow":   {[]byte{0x85, 0x01, 0x00}, 0, 0, ErrOverflow},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, ReadMinimal[uint8], tc)
		})
	}
}

//endregion

//region Write Tests

func TestAppend(t *testing.T) {
	tests := map[string]struct {
		value uint
		want  []byte
	}{
		"Zero":     {0, []byte{0x00}},
		"OneByte":  {127, []byte{0x7f}},
		"TwoBytes": {128, []byte{0x81, 0x00}},
		"Large":    {1 << 21, []byte{0x81, 0x80, 0x80, 0x00}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Append([]byte{0xff}, tc.value)
			if !slices.Equal(got[1:], tc.want) || got[0] != 0xff {
				t.Errorf("Append(%d) = %# x, want ff %# x", tc.value, got, tc.want)
			}
			v, err := ReadMinimal[uint](bytes.NewReader(got[1:]))
			if err != nil || v != tc.value {
				t.Errorf("ReadMinimal(Append(%d)) = %d, %v", tc.value, v, err)
			}
		})
	}
}

//endregion

func BenchmarkLength(b *testing.B) {
	for b.Loop() {
		Size(uint8(200))
	}
}
