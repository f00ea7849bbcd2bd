// Package storage provides the BadgerDB-backed key/value store used for
// completion history and statistics. Values are stored as JSON. Running
// timers are never written here.
package storage
