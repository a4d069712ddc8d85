package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/multixspace/msa/assembler"
	"github.com/multixspace/msa/lexer"
	"github.com/multixspace/msa/output"
)

// handleCompile handles POST /api/v1/compile. It runs one Compiler against
// the submitted source, streams the emission trace to any websocket
// subscriber watching this request, and returns the finished result as JSON.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CompileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	result := s.compile(requestID, req)

	if requestID != "" {
		s.broadcaster.BroadcastResult(requestID, result)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// compile runs the two-pass translation and assembles a CompileResponse.
// When a requestID is present and the compile succeeds, it then broadcasts
// each trace line in pass-2 order; a failed compile broadcasts no trace.
func (s *Server) compile(requestID string, req CompileRequest) CompileResponse {
	c := assembler.New()
	image, err := c.CompileNamed(req.Source, req.Filename)
	if err != nil {
		return CompileResponse{Success: false, Errors: []CompileError{compileErrorFrom(err)}}
	}

	if requestID != "" {
		for _, line := range c.Trace() {
			s.broadcaster.BroadcastTrace(requestID, line)
		}
	}

	resp := CompileResponse{
		Success: true,
		Bytes:   len(image),
		Image:   image,
	}
	if req.Hex {
		resp.Hex = output.HexDump(image, 16)
	}
	if req.Trace {
		resp.Trace = c.Trace()
	}
	if syms := c.Symbols(); syms != nil {
		resp.Symbols = syms.Labels()
	}
	return resp
}

// compileErrorFrom extracts a line number and message from whichever error
// type the compiler returned: a *lexer.Error or an *assembler.Error.
func compileErrorFrom(err error) CompileError {
	switch e := err.(type) {
	case *lexer.Error:
		return CompileError{Line: e.Pos.Line, Message: e.Message}
	case *assembler.Error:
		return CompileError{Line: e.Pos.Line, Message: fmt.Sprintf("%s: %s", e.Kind, e.Message)}
	default:
		return CompileError{Message: err.Error()}
	}
}
