package diff

import (
	"regexp"
	"strings"
	"testing"
)

const dataframeDiff = `diff --git a/datafusion/core/src/dataframe/mod.rs b/datafusion/core/src/dataframe/mod.rs
index 1111111..2222222 100644
--- a/datafusion/core/src/dataframe/mod.rs
+++ b/datafusion/core/src/dataframe/mod.rs
@@ -10,7 +10,5 @@ impl DataFrame {
     }

-    pub fn foo() -> Result<()> {
-        Ok(())
-    }
+    fn foo() {}

     pub fn bar(&self) {}
`

const twoFileDiff = `diff --git a/src/a.rs b/src/a.rs
index 1111111..2222222 100644
--- a/src/a.rs
+++ b/src/a.rs
@@ -1,2 +1,2 @@
-pub struct A;
+pub struct B;
 fn main() {}
diff --git a/src/old.rs b/src/old.rs
deleted file mode 100644
index 3333333..0000000
--- a/src/old.rs
+++ /dev/null
@@ -1,2 +0,0 @@
-pub fn gone() {}
-pub fn also_gone() {}
`

// TestDiffer_Parse tests parsing git diff output
func TestDiffer_Parse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantFiles   int
		wantRemoved []string
		wantAdded   []string
		wantErr     bool
	}{
		{
			name:      "empty diff",
			input:     "",
			wantFiles: 0,
		},
		{
			name:      "whitespace only",
			input:     "\n\n",
			wantFiles: 0,
		},
		{
			name:        "single file",
			input:       dataframeDiff,
			wantFiles:   1,
			wantRemoved: []string{"    pub fn foo() -> Result<()> {", "        Ok(())", "    }"},
			wantAdded:   []string{"    fn foo() {}"},
		},
		{
			name:        "multiple files with deletion",
			input:       twoFileDiff,
			wantFiles:   2,
			wantRemoved: []string{"pub struct A;", "pub fn gone() {}", "pub fn also_gone() {}"},
			wantAdded:   []string{"pub struct B;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDiffer()
			parsed, err := d.Parse(tt.input)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(parsed.Files) != tt.wantFiles {
				t.Fatalf("Parse() files = %d, want %d", len(parsed.Files), tt.wantFiles)
			}

			var removed, added []string
			for _, f := range parsed.Files {
				for _, l := range f.Removed {
					removed = append(removed, l.Content)
				}
				for _, l := range f.Added {
					added = append(added, l.Content)
				}
			}
			if strings.Join(removed, "|") != strings.Join(tt.wantRemoved, "|") {
				t.Errorf("removed = %q, want %q", removed, tt.wantRemoved)
			}
			if strings.Join(added, "|") != strings.Join(tt.wantAdded, "|") {
				t.Errorf("added = %q, want %q", added, tt.wantAdded)
			}
		})
	}
}

// TestDiffer_Parse_LineNumbers checks that removed lines carry original line numbers
func TestDiffer_Parse_LineNumbers(t *testing.T) {
	parsed, err := NewDiffer().Parse(dataframeDiff)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	removed := parsed.RemovedLines()
	if len(removed) != 3 {
		t.Fatalf("RemovedLines() = %d lines, want 3", len(removed))
	}
	if removed[0].Number != 12 {
		t.Errorf("first removed line number = %d, want 12", removed[0].Number)
	}
	if removed[0].Path != "datafusion/core/src/dataframe/mod.rs" {
		t.Errorf("path = %q", removed[0].Path)
	}
}

// TestFileChange_Path tests the path of deleted files
func TestFileChange_Path(t *testing.T) {
	parsed, err := NewDiffer().Parse(twoFileDiff)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	deleted := parsed.Files[1]
	if !deleted.Deleted() {
		t.Error("Deleted() = false, want true")
	}
	if deleted.Path() != "src/old.rs" {
		t.Errorf("Path() = %q, want src/old.rs", deleted.Path())
	}
	if parsed.Files[0].Deleted() {
		t.Error("first file should not be deleted")
	}
}

// TestParsed_MatchRemoved tests regex matching over removed lines only
func TestParsed_MatchRemoved(t *testing.T) {
	parsed, err := NewDiffer().Parse(dataframeDiff)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	pubFn := regexp.MustCompile(`^\s*pub\s+fn\s+\w+`)
	matches := parsed.MatchRemoved(pubFn)
	if len(matches) != 1 {
		t.Fatalf("MatchRemoved() = %d, want 1", len(matches))
	}

	// the added "fn foo" and the header lines must never match
	headers := regexp.MustCompile(`^(--|\+\+)`)
	if got := parsed.MatchRemoved(headers); len(got) != 0 {
		t.Errorf("header lines matched: %v", got)
	}
}

// TestFormatForMarkdown tests the markdown wrapper
func TestFormatForMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		diff     string
		maxLines int
		contains []string
	}{
		{name: "empty", diff: "", maxLines: 10, contains: []string{"_No changes detected_"}},
		{name: "small", diff: "-a\n+b\n", maxLines: 10, contains: []string{"```diff\n-a\n+b\n```"}},
		{name: "large", diff: "-a\n-b\n-c\n", maxLines: 2, contains: []string{"<details>", "3 lines", "</details>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatForMarkdown(tt.diff, tt.maxLines)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatForMarkdown() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}
