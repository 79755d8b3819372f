package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithDefaultOptions(t *testing.T) {
	var o Options
	WithDefaultOptions()(&o)

	assert.Equal(t, DefaultDataDir, o.DataDir)
	assert.Equal(t, DefaultWasteThreshold, o.WasteThreshold)
	assert.Equal(t, DefaultCompactInterval, o.CompactInterval)
	assert.Equal(t, DefaultSegmentPrefix, o.SegmentOptions.Prefix)
	assert.Equal(t, DefaultSegmentDirectory, o.SegmentOptions.Directory)
}

func TestWithDataDirIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithDataDir("   ")(&o)
	assert.Equal(t, DefaultDataDir, o.DataDir)

	WithDataDir("/tmp/custom")(&o)
	assert.Equal(t, "/tmp/custom", o.DataDir)
}

func TestWithCompactIntervalRejectsNonPositive(t *testing.T) {
	o := NewDefaultOptions()
	WithCompactInterval(0)(&o)
	assert.Equal(t, DefaultCompactInterval, o.CompactInterval)

	WithCompactInterval(time.Minute)(&o)
	assert.Equal(t, time.Minute, o.CompactInterval)
}

func TestWithWasteThresholdRejectsZero(t *testing.T) {
	o := NewDefaultOptions()
	WithWasteThreshold(0)(&o)
	assert.Equal(t, DefaultWasteThreshold, o.WasteThreshold)

	WithWasteThreshold(4096)(&o)
	assert.Equal(t, uint64(4096), o.WasteThreshold)
}

func TestWithSegmentDirAndPrefix(t *testing.T) {
	o := NewDefaultOptions()
	WithSegmentDir("custom-segments")(&o)
	WithSegmentPrefix("wal")(&o)
	assert.Equal(t, "custom-segments", o.SegmentOptions.Directory)
	assert.Equal(t, "wal", o.SegmentOptions.Prefix)
}
