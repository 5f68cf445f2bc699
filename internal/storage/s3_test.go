package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeySanitizesName(t *testing.T) {
	key := ObjectKey("attachments", "service report (final).pdf")
	assert.True(t, strings.HasPrefix(key, "attachments/"))
	assert.True(t, strings.HasSuffix(key, "-service_report__final_.pdf"))
	assert.NotContains(t, key, " ")
}

func TestObjectKeyIsUniquePerCall(t *testing.T) {
	a := ObjectKey("attachments", "manual.pdf")
	b := ObjectKey("attachments", "manual.pdf")
	assert.NotEqual(t, a, b)
}

func TestEscapeKeyKeepsSlashes(t *testing.T) {
	assert.Equal(t, "attachments/a%20b.pdf", escapeKey("attachments/a b.pdf"))
}
