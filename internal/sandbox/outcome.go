package sandbox

// Kind names an Outcome variant in structured output
type Kind string

const (
	KindCompileError Kind = "compile_error"
	KindTimeout      Kind = "timeout"
	KindRuntimeError Kind = "runtime_error"
	KindSuccess      Kind = "success"
)

// Outcome is the result of one evaluation. The variants are CompileError,
// Timeout, RuntimeError and Success; no other type implements it.
type Outcome interface {
	Kind() Kind
	sealed()
}

// CompileError means the source did not parse. Nothing was executed.
type CompileError struct {
	Message string
}

// Timeout means execution was interrupted at the time budget
type Timeout struct{}

// RuntimeError means the source threw during execution
type RuntimeError struct {
	Message string
}

// Success carries the console output in emission order
type Success struct {
	Logs []string
}

func (CompileError) Kind() Kind { return KindCompileError }
func (Timeout) Kind() Kind      { return KindTimeout }
func (RuntimeError) Kind() Kind { return KindRuntimeError }
func (Success) Kind() Kind      { return KindSuccess }

func (CompileError) sealed() {}
func (Timeout) sealed()      {}
func (RuntimeError) sealed() {}
func (Success) sealed()      {}

// Summary flattens an Outcome for JSON output
type Summary struct {
	Kind    Kind     `json:"kind"`
	Message string   `json:"message,omitempty"`
	Logs    []string `json:"logs,omitempty"`
}

// Summarize converts any Outcome into a Summary
func Summarize(o Outcome) Summary {
	switch v := o.(type) {
	case CompileError:
		return Summary{Kind: v.Kind(), Message: v.Message}
	case RuntimeError:
		return Summary{Kind: v.Kind(), Message: v.Message}
	case Success:
		return Summary{Kind: v.Kind(), Logs: v.Logs}
	default:
		return Summary{Kind: KindTimeout}
	}
}
