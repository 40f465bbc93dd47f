package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client talks to whatever notification daemon owns the bus name. It is the
// sending side of the same interface NotificationServer exports, used by
// notuify.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// Notify sends a notification and returns the server-assigned ID.
func (c *Client) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, error) {
	call := c.obj.Call(DBusInterface+".Notify", 0,
		appName, replacesID, appIcon, summary, body, actions, hints, expireTimeout)

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify call failed: %w", err)
	}
	return id, nil
}

// CloseNotification asks the daemon to close a notification by ID.
func (c *Client) CloseNotification(id uint32) error {
	call := c.obj.Call(DBusInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		return fmt.Errorf("close notification call failed: %w", call.Err)
	}
	return nil
}

// GetServerInformation queries the daemon identity.
func (c *Client) GetServerInformation() (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.Call(DBusInterface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return info, fmt.Errorf("server information call failed: %w", err)
	}
	return info, nil
}

// GetCapabilities queries what the daemon supports.
func (c *Client) GetCapabilities() ([]string, error) {
	var caps []string
	call := c.obj.Call(DBusInterface+".GetCapabilities", 0)
	if err := call.Store(&caps); err != nil {
		return nil, fmt.Errorf("capabilities call failed: %w", err)
	}
	return caps, nil
}
