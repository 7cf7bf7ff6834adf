package errors

// Convenience functions for common error patterns

// Config errors

func ConfigInvalid(path string, cause error) *SyncError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration could not be loaded").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SyncError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Pipeline errors

func MirrorFailed(mapping string, cause error) *SyncError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "directory mirror failed").
		WithContext("mapping", mapping)
}

func NavigationFailed(cause error) *SyncError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "navigation build failed")
}

func ManifestFailed(path string, cause error) *SyncError {
	return Wrap(cause, CategoryManifest, SeverityFatal, "manifest update failed").
		WithContext("path", path)
}

func WatchFailed(cause error) *SyncError {
	return Wrap(cause, CategoryWatch, SeverityFatal, "watch session failed")
}

// Internal errors

func InternalError(message string, cause error) *SyncError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
