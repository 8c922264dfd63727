package replayer

import (
	"encoding/json"
	"errors"
)

// TraceKind selects which of the two trailing-trace encodings spec.md
// §4.10's tracing mode expects.
type TraceKind uint8

const (
	TraceKindNone TraceKind = iota
	TraceKindOpcodeLog
	TraceKindCallFrame
)

// ErrUnknownTraceKind is returned when the trailing trace tag byte is
// neither TraceKindOpcodeLog nor TraceKindCallFrame.
var ErrUnknownTraceKind = errors.New("replayer: unknown trace kind byte")

// OpcodeLogEntry mirrors one step of go-ethereum's vm.StructLog, the shape
// produced by vm.EVMLogger's opcode-level tracer.
type OpcodeLogEntry struct {
	PC      uint64 `json:"pc"`
	Op      string `json:"op"`
	Gas     uint64 `json:"gas"`
	GasCost uint64 `json:"gasCost"`
	Depth   int    `json:"depth"`
	Error   string `json:"error,omitempty"`
}

// CallFrame mirrors go-ethereum's call-frame tracer output shape
// (core/tracing.Hooks's OnEnter/OnExit callbacks, flattened to a JSON tree).
type CallFrame struct {
	Type    string      `json:"type"`
	From    string      `json:"from"`
	To      string      `json:"to"`
	Value   string      `json:"value,omitempty"`
	Gas     uint64      `json:"gas"`
	GasUsed uint64      `json:"gasUsed"`
	Input   string      `json:"input"`
	Output  string      `json:"output,omitempty"`
	Error   string      `json:"error,omitempty"`
	Calls   []CallFrame `json:"calls,omitempty"`
}

// DecodeTrailingTrace splits raw EVM output into (actual return data,
// decoded trace) when the replayer is running in tracing mode. The trailing
// trace is tagged with a single TraceKind byte followed by its JSON
// encoding; callers that did not request tracing should not call this.
func DecodeTrailingTrace(output []byte, traceLen int) (returnData []byte, opcodeLog []OpcodeLogEntry, callFrame *CallFrame, err error) {
	if traceLen <= 0 || traceLen > len(output) {
		return output, nil, nil, nil
	}

	split := len(output) - traceLen
	returnData = output[:split]
	trailer := output[split:]

	if len(trailer) == 0 {
		return returnData, nil, nil, nil
	}

	switch TraceKind(trailer[0]) {
	case TraceKindOpcodeLog:
		var log []OpcodeLogEntry
		if err := json.Unmarshal(trailer[1:], &log); err != nil {
			return returnData, nil, nil, err
		}
		return returnData, log, nil, nil
	case TraceKindCallFrame:
		var frame CallFrame
		if err := json.Unmarshal(trailer[1:], &frame); err != nil {
			return returnData, nil, nil, err
		}
		return returnData, nil, &frame, nil
	default:
		return returnData, nil, nil, ErrUnknownTraceKind
	}
}
