// internal/common/validation/formats_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("ops@ecobeauty.com"))
	assert.False(t, IsEmail("ops@ecobeauty"))
	assert.False(t, IsEmail("ops ecobeauty@x.com"))
	assert.False(t, IsEmail(""))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://logiflow.com"))
	assert.True(t, IsURL("https://youtu.be/abc?t=3"))
	assert.True(t, IsURL("mailto:ops@logiflow.com"))
	assert.False(t, IsURL("logiflow.com"))
	assert.False(t, IsURL("http://"))
	assert.False(t, IsURL(""))
}

func TestCustomFormatsInSchema(t *testing.T) {
	s := MustCompile(`{
	  "type": "object",
	  "properties": {
	    "email":   {"type": "string", "format": "optional-email"},
	    "contact": {"type": "string", "format": "email-address"},
	    "site":    {"type": "string", "format": "optional-url"}
	  }
	}`)

	res, err := s.Validate(map[string]interface{}{"email": "", "contact": "a@b.co", "site": ""})
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = s.Validate(map[string]interface{}{"email": "bad", "contact": "", "site": "nope"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.FieldErrors(), 3)
}
