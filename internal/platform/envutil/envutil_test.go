package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReaders(t *testing.T) {
	t.Setenv("PM_STR", "  hello ")
	t.Setenv("PM_BLANK", "   ")
	t.Setenv("PM_INT", "12")
	t.Setenv("PM_BAD_INT", "x")
	t.Setenv("PM_FLOAT", "0.45")
	t.Setenv("PM_BOOL", "Yes")
	t.Setenv("PM_BAD_BOOL", "maybe")
	t.Setenv("PM_SECS", "-3")
	t.Setenv("PM_SECS_OK", "4")

	assert.Equal(t, "hello", String("PM_STR", "d"))
	assert.Equal(t, "d", String("PM_MISSING", "d"))
	assert.Equal(t, "d", String("PM_BLANK", "d"))
	assert.Equal(t, 12, Int("PM_INT", 1))
	assert.Equal(t, 1, Int("PM_BAD_INT", 1))
	assert.Equal(t, 0.45, Float("PM_FLOAT", 0))
	assert.True(t, Bool("PM_BOOL", false))
	assert.True(t, Bool("PM_BAD_BOOL", true))
	assert.Equal(t, 5*time.Second, Seconds("PM_SECS", 5*time.Second))
	assert.Equal(t, 4*time.Second, Seconds("PM_SECS_OK", time.Second))
}

func TestList(t *testing.T) {
	t.Setenv("PM_ORIGINS", " http://a, ,http://b ")
	assert.Equal(t, []string{"http://a", "http://b"}, List("PM_ORIGINS", nil))
	assert.Equal(t, []string{"x"}, List("PM_NO_ORIGINS", []string{"x"}))
	assert.Empty(t, SplitList(" , "))
}
