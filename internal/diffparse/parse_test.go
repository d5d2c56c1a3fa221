package diffparse

import (
	"testing"

	"github.com/mikanfactory/hibiki/internal/model"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 83db48f..bf269f4 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,4 @@
 package main
-func old() {}
+func new() {}
 // trailing
\ No newline at end of file
`

func TestParse_ClassifiesLines(t *testing.T) {
	got := Parse(sampleDiff)

	if got.IsBinary {
		t.Fatal("expected non-binary diff")
	}
	if len(got.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %+v", len(got.Lines), got.Lines)
	}

	wantTypes := []model.LineType{model.LineContext, model.LineDel, model.LineAdd, model.LineContext}
	for i, want := range wantTypes {
		if got.Lines[i].Type != want {
			t.Errorf("line %d: got type %v, want %v", i, got.Lines[i].Type, want)
		}
	}

	if *got.Lines[1].Left != "func old() {}" {
		t.Errorf("del line left = %q", *got.Lines[1].Left)
	}
	if got.Lines[1].Right != nil {
		t.Errorf("del line should have no right side")
	}
	if *got.Lines[2].Right != "func new() {}" {
		t.Errorf("add line right = %q", *got.Lines[2].Right)
	}
	if got.Lines[2].Left != nil {
		t.Errorf("add line should have no left side")
	}
}

func TestParse_EverySideIsPopulated(t *testing.T) {
	got := Parse(sampleDiff)
	for i, line := range got.Lines {
		if line.Left == nil && line.Right == nil {
			t.Errorf("line %d has neither side populated", i)
		}
	}
}

func TestParse_DropsMetadata(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"file header", "diff --git a/x b/x"},
		{"index", "index 83db48f..bf269f4 100644"},
		{"old file", "--- a/x"},
		{"new file", "+++ b/x"},
		{"deleted file header", "--- /dev/null"},
		{"quoted file header", "+++ \"b/odd name.go\""},
		{"hunk", "@@ -1,2 +1,2 @@ func main()"},
		{"mode", "old mode 100644"},
		{"rename", "rename from a.go"},
		{"similarity", "similarity index 97%"},
		{"no newline", "\\ No newline at end of file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line + "\n")
			if len(got.Lines) != 0 {
				t.Errorf("metadata line %q produced %d lines", tt.line, len(got.Lines))
			}
		})
	}
}

func TestParse_ContentResemblingFileHeader(t *testing.T) {
	// An added line whose content is "++ x" arrives as "+++ x" and a
	// deleted "-- x" as "--- x"; neither names a/, b/ or /dev/null, so
	// both are real content, not file headers.
	got := Parse("+++ x\n--- x\n")
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(got.Lines), got.Lines)
	}
	if got.Lines[0].Type != model.LineAdd || *got.Lines[0].Right != "++ x" {
		t.Errorf("unexpected add line: %+v", got.Lines[0])
	}
	if got.Lines[1].Type != model.LineDel || *got.Lines[1].Left != "-- x" {
		t.Errorf("unexpected del line: %+v", got.Lines[1])
	}
}

func TestParse_BinaryFile(t *testing.T) {
	got := Parse("Binary files a/logo.png and b/logo.png differ\n")
	if !got.IsBinary {
		t.Fatal("expected binary flag")
	}
	if len(got.Lines) != 0 {
		t.Fatalf("binary diff should have no lines, got %d", len(got.Lines))
	}
}

func TestParse_EmptyOutputIsNotBinary(t *testing.T) {
	got := Parse("")
	if got.IsBinary {
		t.Fatal("empty diff must not be flagged binary")
	}
	if len(got.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(got.Lines))
	}
}

func TestParse_UnknownMarkerIsContext(t *testing.T) {
	got := Parse("?odd line\n")
	if len(got.Lines) != 1 || got.Lines[0].Type != model.LineContext {
		t.Fatalf("unknown marker should be context, got %+v", got.Lines)
	}
}

func TestAllAdded(t *testing.T) {
	got := AllAdded("line one\nline two\n")
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	for i, line := range got.Lines {
		if line.Type != model.LineAdd {
			t.Errorf("line %d: expected add", i)
		}
		if line.Left != nil {
			t.Errorf("line %d: add line must not have a left side", i)
		}
	}
	if *got.Lines[1].Right != "line two" {
		t.Errorf("got %q", *got.Lines[1].Right)
	}
}

func TestAllDeleted(t *testing.T) {
	got := AllDeleted("gone\n")
	if len(got.Lines) != 1 || got.Lines[0].Type != model.LineDel {
		t.Fatalf("expected one del line, got %+v", got.Lines)
	}
	if got.Lines[0].Right != nil {
		t.Error("del line must not have a right side")
	}
}

func TestAllAdded_Empty(t *testing.T) {
	if got := AllAdded(""); len(got.Lines) != 0 {
		t.Fatalf("expected no lines for empty content, got %d", len(got.Lines))
	}
}
