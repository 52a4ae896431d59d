package diff

import (
	"fmt"
	"regexp"
)

// ExampleDiffer_Parse demonstrates how to find removed public functions in git diff output
func ExampleDiffer_Parse() {
	d := NewDiffer()

	parsed, err := d.Parse(`--- a/src/lib.rs
+++ b/src/lib.rs
@@ -1,2 +1,1 @@
-pub fn removed() {}
 pub fn kept() {}
`)
	if err != nil {
		return
	}

	for _, l := range parsed.MatchRemoved(regexp.MustCompile(`^pub fn`)) {
		fmt.Printf("%s:%d %s\n", l.Path, l.Number, l.Content)
	}
	// Output: src/lib.rs:1 pub fn removed() {}
}
