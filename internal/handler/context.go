package handler

import (
	"github.com/labstack/echo/v4"

	"househunt/internal/guard"
	"househunt/internal/notify"
	"househunt/internal/session"
)

// Context keys set by the router middleware.
const (
	ContextKeyDeviceID = "device_id"
	ContextKeySession  = "session"
	ContextKeyNotices  = "notices"
	ContextKeyGuard    = "guard"
)

// SessionOf returns the device session restored for this request.
func SessionOf(c echo.Context) *session.Store {
	store, _ := c.Get(ContextKeySession).(*session.Store)
	return store
}

// NoticesOf returns the notification buffer of this request.
func NoticesOf(c echo.Context) *notify.Buffer {
	if buf, ok := c.Get(ContextKeyNotices).(*notify.Buffer); ok {
		return buf
	}
	buf := &notify.Buffer{}
	c.Set(ContextKeyNotices, buf)
	return buf
}

// DeviceIDOf returns the device identifier of this request.
func DeviceIDOf(c echo.Context) string {
	id, _ := c.Get(ContextKeyDeviceID).(string)
	return id
}

// WatcherOf returns the guard watcher of a protected route, nil elsewhere.
func WatcherOf(c echo.Context) *guard.Watcher {
	w, _ := c.Get(ContextKeyGuard).(*guard.Watcher)
	return w
}

func snapshotOf(c echo.Context) session.Snapshot {
	if store := SessionOf(c); store != nil {
		return store.Snapshot()
	}
	return session.Snapshot{}
}
