package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	for _, s := range []string{"9876543210", "+91 98765 43210", "(987) 654-3210", "+14155550123"} {
		assert.True(t, ValidPhone(s), s)
	}
	for _, s := range []string{"", "12345", "0987654321", "98765abc10", "+1234567890123456"} {
		assert.False(t, ValidPhone(s), s)
	}
	assert.Equal(t, "+919876543210", CleanPhone(" +91 (98765) 43-210 "))
}

func TestValidEmailAndURL(t *testing.T) {
	assert.True(t, ValidEmail("guest@example.com"))
	assert.False(t, ValidEmail("guest@"))
	assert.False(t, ValidEmail(""))

	assert.True(t, ValidURL("https://res.cloudinary.com/demo/image/upload/a.png"))
	assert.False(t, ValidURL("javascript:alert(1)"))
	assert.False(t, ValidURL("not a url"))
}
