package sensor

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	f := NewFormatter(12)
	require.Equal(t, 12, f.Cap())
	require.Zero(t, f.Len())
	fmt.Fprintf(f, "Counter: %d", 7)
	require.Equal(t, "Counter: 7", f.String())
	require.False(t, f.Full())

	fmt.Fprintf(f, "%d", 12345)
	require.Equal(t, "Counter: 712", f.String())
	require.True(t, f.Full())

	f.Reset()
	require.Zero(t, f.Len())
	require.Empty(t, f.String())
}

func TestFormatterKeepsRunesWhole(t *testing.T) {
	f := NewFormatter(10)
	fmt.Fprintf(f, "Temp: %d\u00b0C", 215)
	require.Equal(t, "Temp: 215", f.String())
	require.True(t, utf8.ValidString(f.String()))
	require.True(t, f.Full())

	fmt.Fprint(f, "x")
	require.Equal(t, "Temp: 215", f.String())

	f.Reset()
	require.False(t, f.Full())
	fmt.Fprint(f, "Temp: 2\u00b0C")
	require.Equal(t, "Temp: 2\u00b0C", f.String())
	require.True(t, f.Full())

	f.Reset()
	fmt.Fprint(f, "\u65e5\u672c\u8a9e\u65e5")
	require.Equal(t, "\u65e5\u672c\u8a9e", f.String())
	require.Equal(t, 9, f.Len())
}
