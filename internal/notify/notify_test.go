package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewAssignsIdentity(t *testing.T) {
	a := New("o-1", "v-1", KindAlert, "boom")
	b := New("o-1", "v-1", KindAlert, "boom")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique notice ids, got %q and %q", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Fatal("expected creation time")
	}
}

type labelSink struct {
	label string
	got   *[]string
}

func (s labelSink) Notify(_ context.Context, n Notice) {
	*s.got = append(*s.got, s.label+":"+n.Message)
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	var got []string
	first := labelSink{label: "first", got: &got}
	second := labelSink{label: "second", got: &got}

	Fanout(first, nil, second).Notify(context.Background(), New("o", "v", KindInfo, "hi"))

	if strings.Join(got, ",") != "first:hi,second:hi" {
		t.Fatalf("unexpected delivery order %v", got)
	}
}

func TestLogSinkWritesWarnForAlerts(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Log(logger).Notify(context.Background(), New("o-9", "v", KindAlert, "conflict"))

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"order":"o-9"`) {
		t.Fatalf("unexpected log output %s", out)
	}
}
