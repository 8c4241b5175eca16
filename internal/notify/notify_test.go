package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/angelmondragon/packfinderz-variations/pkg/logger"
)

func TestRecorderAndFanout(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	sink := Fanout{first, nil, second}

	sink.Warn(context.Background(), "Color reset", 5*time.Second)

	for i, rec := range []*Recorder{first, second} {
		got := rec.Notifications()
		if len(got) != 1 || got[0].Message != "Color reset" || got[0].AutoCloseAfter != 5*time.Second {
			t.Fatalf("recorder %d: unexpected notifications %+v", i, got)
		}
	}

	first.Reset()
	if len(first.Notifications()) != 0 {
		t.Fatalf("expected reset recorder to be empty")
	}
}

func TestLogSinkWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf, Format: "json"})

	NewLogSink(logg).Warn(context.Background(), "Size reset", time.Second)

	out := buf.String()
	if !strings.Contains(out, `"notification":"Size reset"`) {
		t.Fatalf("expected notification in log output, got %s", out)
	}
	if !strings.Contains(out, `"auto_close_after":"1s"`) {
		t.Fatalf("expected auto close in log output, got %s", out)
	}
}
