// Package git locates the repository a docs tree lives in.
//
// Source directories in docsync.yaml are relative to the repository root,
// which lets the tool run from any subdirectory the same way git does.
package git
