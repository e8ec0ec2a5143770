package koiq_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/koiq/koiq"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Println(v ...interface{}) { l.lines = append(l.lines, fmt.Sprintln(v...)) }
func (l *recordingLogger) Printf(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestNewSenderWithLoggerReportsCreatedAndAttached(t *testing.T) {
	name := uniqueName(t)
	senderLog := &recordingLogger{}
	s, err := koiq.NewSenderWithLogger[point](senderLog, name, 4*1024)
	if err != nil {
		t.Fatalf("NewSenderWithLogger: %v", err)
	}
	defer s.Cleanup()
	if len(senderLog.lines) != 1 || !strings.Contains(senderLog.lines[0], name) {
		t.Fatalf("sender log lines = %v, want one line mentioning %q", senderLog.lines, name)
	}
	if !strings.Contains(senderLog.lines[0], "created") {
		t.Fatalf("sender log line = %q, want it to mention creation", senderLog.lines[0])
	}

	receiverLog := &recordingLogger{}
	r, err := koiq.NewReceiverWithLogger[point](receiverLog, name, 4*1024)
	if err != nil {
		t.Fatalf("NewReceiverWithLogger: %v", err)
	}
	defer r.Close()
	if len(receiverLog.lines) != 1 || !strings.Contains(receiverLog.lines[0], "attached") {
		t.Fatalf("receiver log lines = %v, want one line mentioning attach", receiverLog.lines)
	}
}
