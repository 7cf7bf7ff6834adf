// Package testutil provides repository fixtures and filesystem assertions
// shared by the sync tests.
//
// Example:
//
//	tree := testutil.NewTree(t).
//		WriteFile("architecture/NORTH_STAR.md", "# north").
//		WriteFile("mkdocs.yml", "site_name: x\n")
//	// ... run a sync against tree.Root() ...
//	tree.Assert().
//		AssertLinked("architecture/NORTH_STAR.md", "docs/architecture/NORTH_STAR.md").
//		AssertFileNotExists("docs/architecture/OLD.md")
package testutil
