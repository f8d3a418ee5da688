package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPending(t *testing.T) {
	all := []Migration{
		{Version: 3, Description: "third"},
		{Version: 1, Description: "first"},
		{Version: 2, Description: "second"},
	}
	applied := map[int]time.Time{1: time.Now()}

	pending := Pending(all, applied)
	if assert.Len(t, pending, 2) {
		assert.Equal(t, 2, pending[0].Version)
		assert.Equal(t, 3, pending[1].Version)
	}

	assert.Empty(t, Pending(all, map[int]time.Time{1: {}, 2: {}, 3: {}}))
}
