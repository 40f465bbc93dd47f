// Package dbus implements the org.freedesktop.Notifications D-Bus interface.
// It provides the server side notuid exports on the session bus, decoding of
// Notify calls and their hints into notification records, and a small client
// used by notuify to send and close notifications from scripts.
package dbus
