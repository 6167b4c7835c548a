package models

// SyncCursor is the process-wide sync state persisted across restarts.
type SyncCursor struct {
	// LastSyncedAt is the server timestamp (Unix milliseconds) up to which
	// local changes are known to have been pushed or pulled.
	LastSyncedAt int64
	// ClockOffset is the estimated server-minus-local delta in milliseconds.
	ClockOffset int64
	// DeviceID identifies this installation; generated once and kept.
	DeviceID string
}
