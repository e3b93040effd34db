// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import "github.com/holomush/worldgate/internal/worlds"

// CurrentVersion is the config revision written by this release.
const CurrentVersion = 2

// Config keys.
const (
	KeyVersion       = "config-version"
	KeyPortalLinking = "enable-portal-linking"
	KeySpawnOverride = "override-spawn"
	KeySpawnWorld    = "global-spawn.world"
	KeySpawnXYZ      = "global-spawn.xyz"
	KeyWorldNames    = "world-names"
	KeyForceLoad     = "force-load"
	KeyWorlds        = "worlds"

	spawnDefault = "default"
)

func worldKey(id, field string) string {
	return KeyWorlds + "." + id + "." + field
}

// Migrate upgrades an older document in place and reports whether it
// changed anything. Revision 1 predates the spawn override.
func Migrate(s *Store) (bool, error) {
	version := s.Int(KeyVersion)
	if version >= CurrentVersion {
		return false, nil
	}

	// Revision 1 (and unversioned files) lack the spawn settings.
	updates := []struct {
		key   string
		value any
	}{
		{KeySpawnOverride, true},
		{KeySpawnWorld, worlds.DefaultWorld},
		{KeySpawnXYZ, spawnDefault},
		{KeyVersion, CurrentVersion},
	}
	for _, u := range updates {
		if err := s.Set(u.key, u.value); err != nil {
			return false, err
		}
	}
	return true, nil
}
