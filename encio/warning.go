package encio

import (
	"io"
	"os"
)

// Warnings is where warnings are sent to.
// In a few cases ply will continue to operate with e.g. an unexpected format version or an incorrectly implemented io.Writer,
// however I don't want to silently put up with things that seem worrying.
var Warnings io.Writer = os.Stderr
