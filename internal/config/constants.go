package config

const (
	// EnvPrefix namespaces environment variables, e.g. CLIPPINGS_ARCHIVE_PATH
	EnvPrefix = "clippings"

	// DefaultLockTimeout bounds the wait for another process holding the archive
	DefaultLockTimeout = "5s"

	// LockFileSuffix is appended to the archive path to name its lock file
	LockFileSuffix = ".lock"
)
