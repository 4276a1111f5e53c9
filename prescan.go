package term

import (
	"strings"
	"unicode/utf8"
)

// oscFinding is one OSC payload recovered by prescanOSC.
type oscFinding struct {
	code    string
	payload string
}

// prescanOSC walks data looking for complete OSC 7 and OSC 133 sequences
// ahead of the full VT parser. A payload runs from just after `ESC ]` to a
// terminating BEL (0x07) or ST (`ESC \`); a sequence that runs off the end
// of data without a terminator is left alone entirely — it is carried into
// the VT parser unchanged on the next call, since go-ansicode buffers
// partial escape sequences across Write calls on its own. Malformed UTF-8
// in a payload aborts only that one OSC; prescanOSC never returns an error,
// matching the "feed never fails" requirement.
func prescanOSC(data []byte) []oscFinding {
	var findings []oscFinding

	for i := 0; i < len(data); i++ {
		if data[i] != 0x1B || i+1 >= len(data) || data[i+1] != ']' {
			continue
		}
		start := i + 2
		end, terminatorLen := findOSCTerminator(data, start)
		if end < 0 {
			// Unterminated: stop scanning, let the parser handle the rest
			// once more bytes arrive.
			break
		}

		payload := data[start:end]
		if utf8.Valid(payload) {
			code, rest := splitOSCCode(string(payload))
			if code == "7" || code == "133" {
				findings = append(findings, oscFinding{code: code, payload: rest})
			}
		}
		// Malformed UTF-8 payloads are silently skipped; resume scanning
		// after the terminator either way.
		i = end + terminatorLen - 1
	}

	return findings
}

// findOSCTerminator returns the index of the first BEL or ST after start,
// and the terminator's byte length, or (-1, 0) if data runs out first.
func findOSCTerminator(data []byte, start int) (int, int) {
	for j := start; j < len(data); j++ {
		switch data[j] {
		case 0x07:
			return j, 1
		case 0x1B:
			if j+1 < len(data) && data[j+1] == '\\' {
				return j, 2
			}
		}
	}
	return -1, 0
}

// splitOSCCode splits "<code>;<rest>" into its two parts; rest is empty if
// there is no semicolon.
func splitOSCCode(payload string) (code, rest string) {
	idx := strings.IndexByte(payload, ';')
	if idx < 0 {
		return payload, ""
	}
	return payload[:idx], payload[idx+1:]
}

// applyOSC7Prescan decodes a pre-scanned OSC 7 payload ("file://host/path")
// and stores it as the working directory ahead of the VT parser's own
// dispatch. This is idempotent with the parser's later SetWorkingDirectory
// call for the same sequence, so firing it twice for one OSC 7 is harmless.
func (t *Terminal) applyOSC7Prescan(payload string) {
	if strings.HasPrefix(payload, "file://") {
		t.SetWorkingDirectory(payload)
	}
}

// prescanWrite runs prescanOSC over data and applies whatever it can apply
// without risking a double state mutation: OSC 7 (a plain value store, safe
// to repeat) is applied immediately; OSC 133 marks are left to the VT
// parser's own ShellIntegrationMark dispatch, since that path appends to a
// history slice and firing it twice here would double-count commands.
func (t *Terminal) prescanWrite(data []byte) {
	for _, f := range prescanOSC(data) {
		if f.code == "7" {
			t.applyOSC7Prescan(f.payload)
		}
	}
}

