// Package option carries the handful of program-level switches the analyzer
// and emitter observe: a flat bool-flag struct trimmed to what spec §6
// actually names.
package option

// Options are the external inputs besides the AST and the (empty) symbol
// table that spec §6 names.
type Options struct {
	// Verbose corresponds to spec §6's "iflag". When set, the emitter writes
	// a `# name: N air instructions, varargs=...` comment line at the top of
	// each routine's assembly text; nothing is printed to standard output,
	// and no initializer or type debug output is produced.
	Verbose bool
}

// StackAlignment is the System-V AMD64 ABI's required outgoing-call stack
// alignment in bytes (spec §3: "each emitted routine's final stack-allocation
// amount is 16-byte aligned").
const StackAlignment = 16

// RegisterSaveAreaSize is the byte size of the varargs register-save area
// spilled in a variadic routine's prologue (spec §4.6): six 8-byte integer
// registers plus eight 16-byte SSE register slots, each stored whole by movaps.
const RegisterSaveAreaSize = 176
