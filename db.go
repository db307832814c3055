package leadmagnet

import "context"

// Database is implemented by every storage backend
type Database interface {
	Open() error
	Close() error
	Ping(ctx context.Context) error
}
