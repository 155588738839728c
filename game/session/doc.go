// Package session provides in-memory session management for the Same Game engine.
//
// Manager stores sessions keyed by case-insensitive 4-character hex IDs
// generated with crypto/rand. Each session owns a GameEngine and its own
// random source: the preset seed when one is set, otherwise the clock, or a
// caller-supplied SourceFactory.
//
// The manager is safe for concurrent use. Sessions live only as long as the
// process; CleanupExpiredSessions drops those idle longer than a given age.
//
//	manager := session.NewManager(session.WithLogger(logger))
//	sess, err := manager.Create("", config)
package session
