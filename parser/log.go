package parser

import (
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Matching is traced at logrus Trace level, one enter/exit pair per
// composite term, indented by recursion depth. The counter is shared by all
// in-flight matches, so concurrent matches interleave their trace lines but
// never race.
var traceDepth int32

type traceMsg bool

func enterf(format string, args ...interface{}) traceMsg {
	if !logrus.IsLevelEnabled(logrus.TraceLevel) {
		return false
	}
	depth := atomic.AddInt32(&traceDepth, 1) - 1
	logrus.Tracef(strings.Repeat("  ", int(depth))+"--> "+format, args...)
	return true
}

func (t traceMsg) exitf(format string, args ...interface{}) {
	if !t {
		return
	}
	depth := atomic.AddInt32(&traceDepth, -1)
	for i, a := range args {
		switch a := a.(type) {
		case *error:
			if *a != nil {
				args[i] = *a
			} else {
				args[i] = "ok"
			}
		case *TreeElement:
			args[i] = *a
		}
	}
	logrus.Tracef(strings.Repeat("  ", int(depth))+"<-- "+format, args...)
}
