// Package watch re-runs the sync pipeline when source directories change.
//
// Filesystem events are debounced into a single run; an optional poll
// interval (gocron) covers filesystems where inotify events are not
// delivered, such as network mounts. Runs never overlap.
package watch
