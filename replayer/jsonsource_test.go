package replayer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONSource_DecodesOneRecordPerLine(t *testing.T) {
	line := `{"method":"submit","input":"deadbeef","block":{"height":10,"timestamp":5,"random_seed":"aa","chain_id":"54"},"expected_diff":[{"key":"6163636f756e74","value":"01"}],"output":"cafe"}`
	src := NewJSONSource(strings.NewReader(line + "\n"))

	rec, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "submit", rec.Method)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, rec.Input)
	require.Equal(t, uint64(10), rec.Block.Height)
	require.Equal(t, uint64(5), rec.Block.Timestamp)
	require.Equal(t, byte(0xaa), rec.Block.RandomSeed[31])
	require.Equal(t, byte(0x54), rec.Block.ChainID[31])
	require.Len(t, rec.ExpectedDiff, 1)
	require.Equal(t, []byte("account"), rec.ExpectedDiff[0].Key)
	require.Equal(t, []byte{0x01}, rec.ExpectedDiff[0].Value)
	require.Equal(t, []byte{0xca, 0xfe}, rec.Output)

	_, ok, err = src.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestJSONSource_SkipsBlankLines(t *testing.T) {
	src := NewJSONSource(strings.NewReader("\n\n"))
	_, ok, err := src.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestJSONSource_MalformedHexErrors(t *testing.T) {
	line := `{"method":"submit","input":"not-hex","block":{"height":1,"timestamp":1,"random_seed":"","chain_id":""},"expected_diff":[]}`
	src := NewJSONSource(strings.NewReader(line + "\n"))
	_, _, err := src.Next()
	require.Error(t, err)
}
