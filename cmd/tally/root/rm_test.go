package root

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

func TestRematerializeNote(t *testing.T) {
	assert.Empty(t, rematerializeNote(nil))

	tpl := &storage.Task{ID: "0123456789abcdef", Title: "gym", IsTemplate: true}
	note := rematerializeNote(tpl)
	assert.Contains(t, note, `"gym"`)
	assert.Contains(t, note, "tally template rm 01234567")

	archived := *tpl
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	archived.ArchivedAt = &at
	assert.Empty(t, rematerializeNote(&archived))

	instance := *tpl
	instance.IsTemplate = false
	assert.Empty(t, rematerializeNote(&instance))
}
