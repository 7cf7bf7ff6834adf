// Package mirror keeps a destination directory in step with a flat source
// directory by hardlinking every qualifying source file into it.
//
// A file qualifies when it lives directly under the source directory, is a
// regular file (symlinks are followed), has an allow-listed extension and its
// name is not ignored. After Sync the qualifying files of the destination are
// exactly those of the source and each one shares storage with its source
// counterpart. Entries that do not qualify (directories, symlinks, other
// extensions, ignored names) are invisible: never linked and never removed.
//
// Storage identity is pluggable. The default hardlink mode compares device and
// inode through os.SameFile; the copy mode, meant for filesystems without
// hardlinks, copies content and compares SHA-256 digests instead.
package mirror
