package syntax

// Span locates a node in source. Byte offsets are 0-based and end-exclusive;
// line and column are 1-based, matching what diagnostics and quoted metadata
// report.
type Span struct {
	StartByte int
	EndByte   int
	StartLine int
	StartCol  int
}

// At is a shorthand constructor for spans where only the position matters.
func At(line, col int) Span {
	return Span{StartLine: line, StartCol: col}
}
