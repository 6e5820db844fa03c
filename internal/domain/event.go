package domain

import "time"

// ExportEvent is a rendered SED document addressed to an export sink.
type ExportEvent struct {
	Key         string // coordinates key or source file name
	Format      string
	ContentType string
	Body        []byte
	ExportedAt  time.Time

	Measurements    int
	WarningsDropped int
}
