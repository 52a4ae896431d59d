package checks

import (
	"context"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/git"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
)

const (
	testBase = "origin/main"
	testHead = "HEAD"
)

const dataframeDiff = `diff --git a/datafusion/core/src/dataframe/mod.rs b/datafusion/core/src/dataframe/mod.rs
index 1111111..2222222 100644
--- a/datafusion/core/src/dataframe/mod.rs
+++ b/datafusion/core/src/dataframe/mod.rs
@@ -40,7 +40,4 @@ impl DataFrame {
     }
 
-    pub fn foo() {
-        todo!()
-    }
     pub fn bar(&self) {}
 }
`

const keywordsDiff = `diff --git a/datafusion/sql/src/keywords.rs b/datafusion/sql/src/keywords.rs
index 1111111..2222222 100644
--- a/datafusion/sql/src/keywords.rs
+++ b/datafusion/sql/src/keywords.rs
@@ -5,4 +5,3 @@ define_keywords!(
     JOIN,
-    LATERAL,
     LEFT,
     LIMIT,
`

const commentOnlyDiff = `diff --git a/datafusion/core/src/dataframe/mod.rs b/datafusion/core/src/dataframe/mod.rs
index 1111111..2222222 100644
--- a/datafusion/core/src/dataframe/mod.rs
+++ b/datafusion/core/src/dataframe/mod.rs
@@ -1,3 +1,2 @@
-// pub fn old_helper() was removed long ago
 pub struct DataFrame;
 pub fn keep() {}
`

func defaultCheck(name string) config.FileCheckConfig {
	for _, c := range config.Default().Checks {
		if c.Name == name {
			return c
		}
	}
	panic("no default check " + name)
}

func diffCmd(path string) string {
	return command.CommandLine("git", "diff", testBase+".."+testHead, "--", path)
}

func newTestCheck(cfg config.FileCheckConfig, fake *command.Fake) *FileCheck {
	check, err := NewFileCheck(cfg, git.NewClient(fake, ""), fake, "")
	if err != nil {
		panic(err)
	}
	return check
}

type stubCheck struct {
	name   string
	status models.CheckStatus
}

func (s stubCheck) Name() string { return s.name }

func (s stubCheck) Run(_ context.Context, _ Input) models.CheckOutcome {
	return models.CheckOutcome{Status: s.status}
}
