package engine

import (
	stderrors "errors"
	"strings"

	"go.uber.org/zap"
	"modernc.org/quickjs"

	"github.com/wippyai/texsvg/errors"
)

// Messages the interpreter raises when a ceiling is hit. Bundles may wrap
// them, so they are matched anywhere in the exception text.
var (
	stackMessages = []string{"Maximum call stack size exceeded", "stack overflow"}
	heapMessages  = []string{"out of memory"}
)

// translate maps interpreter failures onto the structured error kinds.
// During Load detail names the failing step; during Eval input is the
// evaluated expression.
func (in *Interpreter) translate(phase errors.Phase, detail, input string, err error) error {
	var te *errors.Error
	if stderrors.As(err, &te) {
		return err
	}

	var re error
	switch resource := exceeded(err); resource {
	case "stack":
		re = errors.ResourceExceeded(phase, resource, in.cfg.StackLimitBytes, err)
	case "heap":
		re = errors.ResourceExceeded(phase, resource, in.cfg.HeapLimitBytes, err)
	}
	if re != nil {
		Logger().Debug("resource ceiling hit",
			zap.String("phase", string(phase)),
			zap.String("bundle", in.srcName()),
			zap.Error(err))
	}

	if phase == errors.PhaseLoad {
		if re != nil {
			return errors.Initialization(phase, detail, re)
		}
		return errors.Initialization(phase, detail, err)
	}
	if re != nil {
		return re
	}
	return errors.Evaluation(input, err)
}

// exceeded reports which ceiling err stems from, or "" for ordinary
// exceptions. When memory is exhausted the interpreter may be unable to
// allocate an error object and throws null instead.
func exceeded(err error) string {
	var qe *quickjs.Error
	if stderrors.As(err, &qe) && qe.Name == "" && qe.Error() == "null" {
		return "heap"
	}
	msg := err.Error()
	for _, m := range stackMessages {
		if strings.Contains(msg, m) {
			return "stack"
		}
	}
	for _, m := range heapMessages {
		if strings.Contains(msg, m) {
			return "heap"
		}
	}
	return ""
}

func (in *Interpreter) srcName() string {
	if in.src.Name != "" {
		return in.src.Name
	}
	return "<anonymous>"
}
