package s3aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceiptKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "receipts/READAFRIK-1-123456.html", ReceiptKey("READAFRIK-1-123456"))
}

func TestContentTypeFromKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/html; charset=utf-8", ContentTypeFromKey("receipts/a.HTML"))
	assert.Equal(t, "application/json", ContentTypeFromKey("a.json"))
	assert.Equal(t, "application/pdf", ContentTypeFromKey("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFromKey("noext"))
}
