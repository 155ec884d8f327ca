// Package klog is a minimal bare-tag logger: fmt.Printf("[TAG] ...")
// prefixed by a caller-supplied tag, matching eruntime's
// fmt.Println("[ERUNTIME] ...")/log.Println convention. No structured
// logging library appears anywhere in the retrieval pack (grepped: no
// zerolog/logrus/zap/slog usage in the teacher or the rest of the
// corpus), so the kernel's logging stays on this same plain style rather
// than introducing one.
package klog

import (
	"fmt"
	"os"
	"time"
)

// Logger prefixes every line with a fixed tag, e.g. "[SIM]".
type Logger struct {
	tag string
}

// New returns a Logger using tag (without brackets) as its prefix.
func New(tag string) *Logger {
	return &Logger{tag: tag}
}

func (l *Logger) Printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, "[%s] "+format+"\n", append([]any{l.tag}, args...)...)
}

func (l *Logger) Println(args ...any) {
	fmt.Fprintln(os.Stdout, append([]any{"[" + l.tag + "]"}, args...)...)
}

// Tick logs a per-tick line with a timestamp, used sparingly (e.g. once
// per autosave) since per-tick-of-20ms logging would flood stdout.
func (l *Logger) Tick(tickNum uint32, format string, args ...any) {
	l.Printf("t=%d %s %s", tickNum, time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
