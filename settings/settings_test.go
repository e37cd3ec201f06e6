package settings_test

import (
	"testing"

	"github.com/ilkerhalil/kvlite/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := settings.New()
	assert.Equal(t, "default", s.DefaultPartition())
	assert.Equal(t, 30, s.StaticIntervalInDays())
	assert.Equal(t, int64(30*24*3600), s.StaticIntervalSeconds())
	assert.Equal(t, 1000, s.InsertionCountBeforeCleanup())
	assert.Equal(t, int64(0), s.MaxCacheSizeInMB())
	assert.Equal(t, "kvl_cache_entries", s.CacheEntriesTableName())
}

func TestOptionsOverrideDefaults(t *testing.T) {
	s := settings.New(
		settings.WithDefaultPartition("tenant-a"),
		settings.WithMaxCacheSizeInMB(512),
		settings.WithCacheSchemaName("kvl"),
		settings.WithCacheEntriesTableName("entries"),
	)
	assert.Equal(t, "tenant-a", s.DefaultPartition())
	assert.Equal(t, int64(512), s.MaxCacheSizeInMB())
	assert.Equal(t, "kvl.entries", s.QualifiedTableName())
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	s := settings.New()

	var changes []settings.Change
	s.Subscribe(func(c settings.Change) { changes = append(changes, c) })

	s.SetCacheEntriesTableName("renamed")
	s.SetMaxCacheSizeInMB(100)

	require.Len(t, changes, 2)
	assert.Equal(t, "CacheEntriesTableName", changes[0].Field)
	assert.Equal(t, "kvl_cache_entries", changes[0].Old)
	assert.Equal(t, "renamed", changes[0].New)
	assert.Equal(t, "MaxCacheSizeInMB", changes[1].Field)
}

func TestQualifiedTableNameWithoutSchema(t *testing.T) {
	s := settings.New(settings.WithCacheEntriesTableName("entries"))
	assert.Equal(t, "entries", s.QualifiedTableName())
}
