package extensibility

import (
	"strings"
	"testing"
)

func TestSafeActionRecoversPanic(t *testing.T) {
	buf, logger := bufferLogger()
	action := SafeAction(logger, "explode", func() { panic("boom") })

	action()

	out := buf.String()
	if !strings.Contains(out, "action panicked") || !strings.Contains(out, "boom") {
		t.Errorf("panic not logged:\n%s", out)
	}
}

func TestSafeActionRuns(t *testing.T) {
	buf, logger := bufferLogger()
	ran := false
	SafeAction(logger, "step", func() { ran = true })()
	if !ran {
		t.Error("action did not run")
	}
	if !strings.Contains(buf.String(), "action completed") {
		t.Errorf("completion not logged:\n%s", buf.String())
	}

	var got int
	SafeValueAction(logger, "add", func(v int) { got += v })(3)
	if got != 3 {
		t.Errorf("got %d", got)
	}
}
