package pty

// Byte sequences for named keys. Front-ends send these verbatim via
// Session.WriteString; the table is a fixed contract with any consumer
// translating key events into terminal input.
const (
	KeyEnter     = "\r"
	KeyTab       = "\t"
	KeyBackspace = "\x7f"
	KeyEscape    = "\x1b"
	KeyDelete    = "\x1b[3~"

	KeyUp    = "\x1b[A"
	KeyDown  = "\x1b[B"
	KeyRight = "\x1b[C"
	KeyLeft  = "\x1b[D"

	KeyHome     = "\x1b[H"
	KeyEnd      = "\x1b[F"
	KeyPageUp   = "\x1b[5~"
	KeyPageDown = "\x1b[6~"

	KeyCtrlC = "\x03"
	KeyCtrlD = "\x04"
	KeyCtrlZ = "\x1a"
	KeyCtrlL = "\x0c"
)
