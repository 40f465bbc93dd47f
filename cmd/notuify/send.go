package main

import (
	"fmt"
	"strconv"
	"strings"

	godbus "github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notui/internal/dbus"
)

var sendOpts struct {
	appName       string
	urgency       string
	expireTime    int32
	icon          string
	category      string
	replaceID     uint32
	printID       bool
	transient     bool
	stackTag      string
	soundFile     string
	suppressSound bool
	hints         []string
	actions       []string
}

var sendCmd = &cobra.Command{
	Use:   "send <summary> [body]",
	Short: "Send a notification",
	Long: `Send a notification to the running daemon.

The summary is required; the body is optional. Raw hints can be attached
with --hint TYPE:NAME:VALUE where TYPE is string, int, double, byte or
boolean.

Examples:
  # Simple notification
  notuify send "Build finished"

  # Critical with a 10 second timeout
  notuify send -u critical -t 10000 "Disk warning" "Root filesystem almost full"

  # Replace a previous notification (volume-style popup)
  notuify send -p "Volume" "42%" --stack-tag volume

  # Progress bar via the value hint
  notuify send "Copying" --hint int:value:75

  # Per-notification colors
  notuify send "Alert" --hint string:fgcolor:#ffffff --hint string:bgcolor:#aa0000`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.appName, "app-name", "a", "notuify",
		"App name reported to the daemon")
	sendCmd.Flags().StringVarP(&sendOpts.urgency, "urgency", "u", "normal",
		"Urgency level (low, normal, critical)")
	sendCmd.Flags().Int32VarP(&sendOpts.expireTime, "expire-time", "t", -1,
		"Timeout in milliseconds (-1: server default, 0: never expire)")
	sendCmd.Flags().StringVarP(&sendOpts.icon, "icon", "i", "",
		"Icon name or path")
	sendCmd.Flags().StringVarP(&sendOpts.category, "category", "c", "",
		"Notification category hint")
	sendCmd.Flags().Uint32VarP(&sendOpts.replaceID, "replace-id", "r", 0,
		"ID of a notification to replace")
	sendCmd.Flags().BoolVarP(&sendOpts.printID, "print-id", "p", false,
		"Print the server-assigned ID to stdout")
	sendCmd.Flags().BoolVar(&sendOpts.transient, "transient", false,
		"Mark the notification transient (kept out of history)")
	sendCmd.Flags().StringVar(&sendOpts.stackTag, "stack-tag", "",
		"Replace any displayed notification carrying the same tag")
	sendCmd.Flags().StringVar(&sendOpts.soundFile, "sound-file", "",
		"Sound file to play instead of the configured one")
	sendCmd.Flags().BoolVar(&sendOpts.suppressSound, "suppress-sound", false,
		"Ask the daemon not to play a sound")
	sendCmd.Flags().StringArrayVar(&sendOpts.hints, "hint", nil,
		"Raw hint as TYPE:NAME:VALUE (repeatable)")
	sendCmd.Flags().StringArrayVarP(&sendOpts.actions, "action", "A", nil,
		"Action as KEY:LABEL (repeatable)")
}

func runSend(cmd *cobra.Command, args []string) error {
	summary := args[0]
	body := ""
	if len(args) > 1 {
		body = args[1]
	}

	urgency, err := parseUrgency(sendOpts.urgency)
	if err != nil {
		return err
	}

	hints := map[string]godbus.Variant{
		"urgency": godbus.MakeVariant(urgency),
	}
	if sendOpts.category != "" {
		hints["category"] = godbus.MakeVariant(sendOpts.category)
	}
	if sendOpts.transient {
		hints["transient"] = godbus.MakeVariant(true)
	}
	if sendOpts.stackTag != "" {
		hints["x-notui-stack-tag"] = godbus.MakeVariant(sendOpts.stackTag)
	}
	if sendOpts.soundFile != "" {
		hints["sound-file"] = godbus.MakeVariant(sendOpts.soundFile)
	}
	if sendOpts.suppressSound {
		hints["suppress-sound"] = godbus.MakeVariant(true)
	}
	for _, raw := range sendOpts.hints {
		name, value, err := parseHint(raw)
		if err != nil {
			return err
		}
		hints[name] = value
	}

	actions, err := parseActions(sendOpts.actions)
	if err != nil {
		return err
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	id, err := client.Notify(sendOpts.appName, sendOpts.replaceID, sendOpts.icon,
		summary, body, actions, hints, sendOpts.expireTime)
	if err != nil {
		return err
	}

	logger.Debug("notification sent", "id", id)
	if sendOpts.printID {
		fmt.Println(id)
	}
	return nil
}

// parseUrgency maps an urgency name or digit to its wire value.
func parseUrgency(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "low", "0":
		return 0, nil
	case "normal", "1":
		return 1, nil
	case "critical", "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("invalid urgency %q (expected low, normal, or critical)", s)
	}
}

// parseHint parses a TYPE:NAME:VALUE hint into a D-Bus variant.
func parseHint(s string) (string, godbus.Variant, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return "", godbus.Variant{}, fmt.Errorf("invalid hint %q (expected TYPE:NAME:VALUE)", s)
	}
	typ, name, value := parts[0], parts[1], parts[2]

	switch strings.ToLower(typ) {
	case "string":
		return name, godbus.MakeVariant(value), nil
	case "int":
		v, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return "", godbus.Variant{}, fmt.Errorf("invalid int hint %q: %w", s, err)
		}
		return name, godbus.MakeVariant(int32(v)), nil
	case "double":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", godbus.Variant{}, fmt.Errorf("invalid double hint %q: %w", s, err)
		}
		return name, godbus.MakeVariant(v), nil
	case "byte":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return "", godbus.Variant{}, fmt.Errorf("invalid byte hint %q: %w", s, err)
		}
		return name, godbus.MakeVariant(byte(v)), nil
	case "boolean", "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return "", godbus.Variant{}, fmt.Errorf("invalid boolean hint %q: %w", s, err)
		}
		return name, godbus.MakeVariant(v), nil
	default:
		return "", godbus.Variant{}, fmt.Errorf("unknown hint type %q (expected string, int, double, byte, or boolean)", typ)
	}
}

// parseActions flattens KEY:LABEL pairs into the wire format.
func parseActions(raw []string) ([]string, error) {
	var actions []string
	for _, s := range raw {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid action %q (expected KEY:LABEL)", s)
		}
		actions = append(actions, parts[0], parts[1])
	}
	return actions, nil
}
