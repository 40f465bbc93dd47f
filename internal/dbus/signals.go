package dbus

import (
	"fmt"
)

// EmitNotificationClosed emits the NotificationClosed signal. Reasons follow
// the notification spec: 1 expired, 2 dismissed by the user, 3 closed by a
// CloseNotification call.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason uint32) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".NotificationClosed", id, reason)
	if err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason)
	return nil
}
