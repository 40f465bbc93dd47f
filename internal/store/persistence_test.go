package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notui/internal/notification"
)

func TestNewJSONLPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	// File should exist
	_, err = os.Stat(path)
	require.NoError(t, err)

	// File should have header
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "notui_schema_version")
}

func TestNewJSONLPersistence_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "nested", "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	// Directory should exist
	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestJSONLPersistence_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	err = p.Append(persistTestNotification("persist1"))
	require.NoError(t, err)

	err = p.Append(persistTestNotification("persist2"))
	require.NoError(t, err)

	// Load and verify
	notifications, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, "persist1", notifications[0].Key)
	assert.Equal(t, "persist2", notifications[1].Key)

	p.Close()
}

func TestJSONLPersistence_AppendBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	ns := []*notification.Notification{
		persistTestNotification("batch1"),
		persistTestNotification("batch2"),
		persistTestNotification("batch3"),
	}

	err = p.AppendBatch(ns)
	require.NoError(t, err)

	notifications, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 3)

	p.Close()
}

func TestJSONLPersistence_Rewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	// Add initial notifications
	p.Append(persistTestNotification("old1"))
	p.Append(persistTestNotification("old2"))
	p.Append(persistTestNotification("old3"))

	// Rewrite with new set
	newNs := []*notification.Notification{
		persistTestNotification("new1"),
		persistTestNotification("new2"),
	}

	err = p.Rewrite(newNs)
	require.NoError(t, err)

	// Verify
	notifications, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, "new1", notifications[0].Key)
	assert.Equal(t, "new2", notifications[1].Key)

	// Backup should be removed
	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))

	p.Close()
}

func TestJSONLPersistence_Clear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	p.Append(persistTestNotification("clear1"))
	p.Append(persistTestNotification("clear2"))

	err = p.Clear()
	require.NoError(t, err)

	notifications, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 0)

	// File should still have header
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "notui_schema_version")

	p.Close()
}

func TestJSONLPersistence_LoadWithReopenedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	// Create and write
	p1, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	p1.Append(persistTestNotification("reopen1"))
	p1.Append(persistTestNotification("reopen2"))
	p1.Close()

	// Reopen and load
	p2, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p2.Close()

	notifications, err := p2.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestJSONLPersistence_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	p.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)

	// Should be 0600
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestJSONLPersistence_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	// Write file with malformed lines
	content := `{"notui_schema_version":1,"created_at":1703577600}
{"key":"valid1","id":1,"app_name":"test","summary":"Test","body":"b","timestamp":1703577600,"urgency":1,"urgency_name":"normal"}
{invalid json}
{"key":"valid2","id":2,"app_name":"test","summary":"Test","body":"b","timestamp":1703577601,"urgency":1,"urgency_name":"normal"}
`
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	notifications, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestJSONLPersistence_SchemaVersionCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	// Write file with future schema version
	content := `{"notui_schema_version":999,"created_at":1703577600}
{"key":"test1","id":1,"app_name":"test","summary":"Test","body":"b","timestamp":1703577600,"urgency":1,"urgency_name":"normal"}
`
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	// Write file with corruption
	content := `{"notui_schema_version":1,"created_at":1703577600}
{"key":"valid1","id":1,"app_name":"test","summary":"Test","body":"b","timestamp":1703577600,"urgency":1,"urgency_name":"normal"}
corrupt line that will break things
{"key":"valid2","id":2,"app_name":"test","summary":"Test","body":"b","timestamp":1703577601,"urgency":1,"urgency_name":"normal"}
`
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)

	// Recover
	err = RecoverFromCorruption(path)
	require.NoError(t, err)

	// Verify recovered file
	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	notifications, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, notifications, 2)

	// Backup should exist
	matches, _ := filepath.Glob(path + ".corrupted.*")
	assert.Len(t, matches, 1)
}

func persistTestNotification(key string) *notification.Notification {
	return &notification.Notification{
		Key:         key,
		ID:          1,
		AppName:     "test-app",
		Summary:     "Test Summary " + key, // Include key to make content unique
		Body:        "Test Body",
		Timestamp:   time.Now().Unix(),
		Urgency:     notification.UrgencyNormal,
		UrgencyName: "normal",
	}
}
