package replayer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/storage"
)

type fakeSource struct {
	records []Record
	i       int
}

func (s *fakeSource) Next() (Record, bool, error) {
	if s.i >= len(s.records) {
		return Record{}, false, nil
	}
	r := s.records[s.i]
	s.i++
	return r, true, nil
}

type fakeRunner struct {
	diff []storage.DiffEntry
	err  error
}

func (r *fakeRunner) RunMethod(method string, input []byte, results []PromiseResult, block BlockMeta) ([]byte, []storage.DiffEntry, error) {
	return nil, r.diff, r.err
}

func TestRunReportsNoDivergenceOnMatchingDiff(t *testing.T) {
	diff := []storage.DiffEntry{{Key: []byte("k"), Value: []byte("v")}}
	src := &fakeSource{records: []Record{{Method: "submit", ExpectedDiff: diff}}}
	runner := &fakeRunner{diff: diff}

	rp := Replayer{Runner: runner}
	divs, err := rp.Run(src)
	require.NoError(t, err)
	require.Empty(t, divs)
}

func TestRunReportsDivergenceOnValueMismatch(t *testing.T) {
	src := &fakeSource{records: []Record{{
		Method:       "submit",
		ExpectedDiff: []storage.DiffEntry{{Key: []byte("k"), Value: []byte("v1")}},
	}}}
	runner := &fakeRunner{diff: []storage.DiffEntry{{Key: []byte("k"), Value: []byte("v2")}}}

	rp := Replayer{Runner: runner}
	divs, err := rp.Run(src)
	require.NoError(t, err)
	require.Len(t, divs, 1)
}

func TestRunPropagatesRunnerError(t *testing.T) {
	src := &fakeSource{records: []Record{{Method: "submit"}}}
	runner := &fakeRunner{err: errors.New("boom")}

	rp := Replayer{Runner: runner}
	_, err := rp.Run(src)
	require.Error(t, err)
}

func TestDecodeTrailingTraceSplitsOpcodeLog(t *testing.T) {
	payload := append([]byte("returnvalue"), 1) // TraceKindOpcodeLog tag
	payload = append(payload, []byte(`[{"pc":0,"op":"PUSH1","gas":100,"gasCost":3,"depth":1}]`)...)

	data, log, frame, err := DecodeTrailingTrace(payload, len(payload)-len("returnvalue"))
	require.NoError(t, err)
	require.Equal(t, []byte("returnvalue"), data)
	require.Nil(t, frame)
	require.Len(t, log, 1)
	require.Equal(t, "PUSH1", log[0].Op)
}
