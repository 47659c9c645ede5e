package diagnostics

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogFaultSinkWarnLogsTheTag(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	LogFaultSink{}.Warn("mag")

	if !strings.Contains(buf.String(), "mag") {
		t.Fatalf("log output %q does not mention the fault tag", buf.String())
	}
}
