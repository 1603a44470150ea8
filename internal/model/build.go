package model

import "time"

// Build describes one prerender run whose output was published to object storage.
type Build struct {
	ID            string    `json:"id"`
	StoragePrefix string    `json:"storage_prefix"`
	Routes        int       `json:"routes"`
	Files         int       `json:"files"`
	MenuSource    Source    `json:"menu_source"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Snapshot is the last successful raw payload of a catalog endpoint.
type Snapshot struct {
	Endpoint  string    `json:"endpoint"`
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}
