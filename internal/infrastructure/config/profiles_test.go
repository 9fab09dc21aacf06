package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiles_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	empty, err := LoadProfiles(dir)
	require.NoError(t, err)
	assert.Empty(t, empty.Profiles)
	assert.False(t, ProfilesExists(dir))

	p := &ProfilesConfig{}
	p.Add("alice", ProfileEntry{Namespace: "betnorm:alice", Description: "Alice's slips"})
	p.Add("bob", ProfileEntry{Namespace: "betnorm:bob"})
	require.NoError(t, p.Save(dir))
	assert.True(t, ProfilesExists(dir))

	loaded, err := LoadProfiles(dir)
	require.NoError(t, err)
	assert.Equal(t, p.Profiles, loaded.Profiles)

	entry, err := loaded.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "betnorm:alice", entry.Namespace)
}

func TestProfiles_Get(t *testing.T) {
	p := &ProfilesConfig{}
	_, err := p.Get("alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profiles configured")

	for _, name := range []string{"f", "e", "d", "c", "b", "a"} {
		p.Add(name, ProfileEntry{Namespace: "betnorm:" + name})
	}
	_, err = p.Get("zed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: a, b, c, d, e, ...")
}

func TestProfiles_RemoveAndExists(t *testing.T) {
	p := &ProfilesConfig{}
	assert.False(t, p.Exists("alice"))

	p.Add("alice", ProfileEntry{Namespace: "betnorm:alice"})
	assert.True(t, p.Exists("alice"))

	p.Remove("alice")
	assert.False(t, p.Exists("alice"))
	assert.Equal(t, []string{}, p.Names(0))
}
