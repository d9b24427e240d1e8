package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimerLogsDuration(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("diagonalize", log)
	time.Sleep(time.Millisecond)
	done()

	out := buf.String()
	assert.Contains(t, out, "diagonalize")
	assert.Contains(t, out, "duration_ms")
	assert.Contains(t, out, "Operation completed")
}
