package ebcdic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

func TestDecodeHello(t *testing.T) {
	cp, err := Lookup("cp1140")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", cp.Decode([]byte{0xC8, 0xC5, 0xD3, 0xD3, 0xD6}))
}

func TestRoundTrip(t *testing.T) {
	cp, err := Lookup("cp1140")
	require.NoError(t, err)

	for _, s := range []string{"HELLO WORLD", "abc.DEF-123", "PDS(MEMBER)=#@$"} {
		assert.Equal(t, s, cp.Decode(cp.Encode(s)), "round trip of %q", s)
	}
}

func TestEuroSign(t *testing.T) {
	// cp1140 replaces cp037's currency sign with the Euro sign at 0x9F.
	cp1140, err := Lookup("cp1140")
	require.NoError(t, err)
	assert.Equal(t, "€", cp1140.Decode([]byte{0x9F}))

	cp037, err := Lookup("cp037")
	require.NoError(t, err)
	assert.Equal(t, "¤", cp037.Decode([]byte{0x9F}))
}

func TestLookupStripsMarkup(t *testing.T) {
	cp, err := Lookup("<b>cp1140</b>")
	require.NoError(t, err)
	assert.Equal(t, "cp1140", cp.Name())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("cp9999")
	require.Error(t, err)
	var unknown *mferrors.CodepageUnknown
	assert.True(t, errors.As(err, &unknown))
}

func TestSupportedCodepages(t *testing.T) {
	names := SupportedCodepages()
	require.NotEmpty(t, names)

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"cp037", "cp500", "cp1047", "cp1140", "cp1149", "cp1153"} {
		assert.True(t, seen[want], "missing codepage %s", want)
	}
}

func TestTransformerDecode(t *testing.T) {
	cp, err := Lookup("cp1140")
	require.NoError(t, err)

	out, err := cp.NewDecoder().Bytes([]byte{0xC8, 0xC9, 0x40, 0x9F})
	require.NoError(t, err)
	assert.Equal(t, "HI €", string(out))
}

func TestTransformerEncode(t *testing.T) {
	cp, err := Lookup("cp1140")
	require.NoError(t, err)

	out, err := cp.NewEncoder().Bytes([]byte("HI"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC8, 0xC9}, out)
}
