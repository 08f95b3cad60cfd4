package renderer

import (
	"bytes"
	"io"
	"time"

	"github.com/etnz/taxlots/date"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// day formats an instant as its UTC calendar day.
func day(t time.Time) string { return date.Of(t).String() }
