package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestProcessBatchIsolatesFailures(t *testing.T) {
	p, _, root := newTestPipeline(t)

	uploads := []Upload{
		{Filename: "first.png", Data: bytes.NewReader(pngBytes(t, 10, 10))},
		{Filename: "", Data: strings.NewReader("ignored")},
		{Filename: "broken.png", Data: strings.NewReader("not a png")},
		{Filename: "second.png", Data: bytes.NewReader(pngBytes(t, 20, 20))},
	}

	report := p.ProcessBatch(context.Background(), uploads)

	// Empty-filename entry counts toward the total but produces
	// neither a success nor a failure entry.
	if report.Total != 4 {
		t.Errorf("total = %d, want 4", report.Total)
	}
	if report.SucceededCount+report.FailedCount != 3 {
		t.Errorf("processed = %d, want 3", report.SucceededCount+report.FailedCount)
	}
	if report.SucceededCount != 2 || len(report.Succeeded) != 2 {
		t.Errorf("succeeded = %d, want 2", report.SucceededCount)
	}
	if report.FailedCount != 1 || len(report.Failed) != 1 {
		t.Fatalf("failed = %d, want 1", report.FailedCount)
	}

	if report.Failed[0].Filename != "broken.png" {
		t.Errorf("failed filename = %q", report.Failed[0].Filename)
	}
	if report.Failed[0].Reason == "" || strings.Contains(report.Failed[0].Reason, "panic") {
		t.Errorf("reason = %q", report.Failed[0].Reason)
	}

	// Success entries keep input order: first.png (10px) before
	// second.png (20px).
	if report.Succeeded[0].Metadata["width"] != "10" {
		t.Errorf("succeeded[0] width = %q, want 10", report.Succeeded[0].Metadata["width"])
	}
	if report.Succeeded[1].Metadata["width"] != "20" {
		t.Errorf("succeeded[1] width = %q, want 20", report.Succeeded[1].Metadata["width"])
	}

	assertTempEmpty(t, root)
}

func TestProcessBatchAllFail(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	report := p.ProcessBatch(context.Background(), []Upload{
		{Filename: "a.tiff", Data: strings.NewReader("x")},
		{Filename: "b.doc", Data: strings.NewReader("y")},
	})

	if report.Total != 2 || report.FailedCount != 2 || report.SucceededCount != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Failed[0].Filename != "a.tiff" || report.Failed[1].Filename != "b.doc" {
		t.Errorf("failure order not preserved: %+v", report.Failed)
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	report := p.ProcessBatch(context.Background(), nil)
	if report.Total != 0 || report.SucceededCount != 0 || report.FailedCount != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Succeeded == nil || report.Failed == nil {
		t.Error("lists must be empty, not nil, for JSON encoding")
	}
}
