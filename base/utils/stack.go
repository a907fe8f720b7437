package utils

import (
	"fmt"
	"runtime"
	"strings"
)

// Stack formats the calling goroutine's stack, skipping `skip` frames.
func Stack(skip int) []byte {
	var sb strings.Builder
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return []byte(sb.String())
}
