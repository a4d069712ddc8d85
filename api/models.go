package api

// CompileRequest is the body of POST /api/v1/compile.
type CompileRequest struct {
	Source   string `json:"source"`
	Filename string `json:"filename,omitempty"`
	Hex      bool   `json:"hex,omitempty"`  // include a hex dump of the image
	Trace    bool   `json:"trace,omitempty"` // include the pass-2 emission trace
}

// CompileResponse is the body of a POST /api/v1/compile that reached the
// compiler, successful (200) or not (422, with Errors set).
type CompileResponse struct {
	Success bool              `json:"success"`
	Bytes   int               `json:"bytes"`
	Image   []byte            `json:"image,omitempty"` // base64-encoded by encoding/json
	Hex     string            `json:"hex,omitempty"`
	Trace   []string          `json:"trace,omitempty"`
	Symbols map[string]int64  `json:"symbols,omitempty"`
	Errors  []CompileError    `json:"errors,omitempty"`
}

// CompileError describes one compile failure, positioned the same way the
// CLI's own diagnostics are.
type CompileError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of a compile request rejected before compiling
// (400: unreadable body or empty source).
type ErrorResponse struct {
	Error string `json:"error"`
}
