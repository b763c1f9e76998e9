// Package storage keeps the per-device key/value records that a browser
// would otherwise hold in local storage.
package storage

import "context"

// Keys written by the session store. They are independent of each other: one
// may be present without the other.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is a key/value area belonging to a single device.
type Storage interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, keys ...string) error
}

// Provider hands out the storage area of a device.
type Provider interface {
	ForDevice(deviceID string) Storage
}
