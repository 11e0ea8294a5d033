package shimtls

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger(t *testing.T) {
	t.Run("filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		l := newDefaultLogger(LevelInfo, &buf, "test ")
		l.Log(LevelError, "boom %d", 1)
		l.Log(LevelInfo, "fine")
		l.Log(LevelDebug, "noise")

		out := buf.String()
		assert.Contains(t, out, "ERROR: test boom 1")
		assert.Contains(t, out, "INFO: test fine")
		assert.NotContains(t, out, "noise")
	})

	t.Run("WithPrefix appends", func(t *testing.T) {
		var buf bytes.Buffer
		l := newDefaultLogger(LevelDebug, &buf, "a ")
		l.WithPrefix("b ").Log(LevelDebug, "msg")
		assert.Contains(t, buf.String(), "a b msg")
	})
}

func TestFuncLogger(t *testing.T) {
	var lines []string
	l := &FuncLogger{
		LoggerFunc: func(format string, args ...interface{}) {
			lines = append(lines, fmt.Sprintf(format, args...))
		},
		Level:  LevelInfo,
		Prefix: "[x] ",
	}
	l.Log(LevelInfo, "hello %s", "world")
	l.Log(LevelDebug, "dropped")
	l.WithPrefix("[y] ").Log(LevelError, "deep")

	assert.Len(t, lines, 2)
	assert.Equal(t, "[x] hello world", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "[x] [y] "))
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(newDefaultLogger(LevelDebug, &buf, "pkg "))
	debugf("traced %d", 7)
	assert.Contains(t, buf.String(), "pkg traced 7")

	// nil restores the silent default
	SetLogger(nil)
	debugf("not seen")
	assert.NotContains(t, buf.String(), "not seen")
}
