// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

// Each registry operation reports one of a closed set of outcomes.
// The string values double as metric labels.

// CreateResult is the outcome of CreateWorld.
type CreateResult string

// CreateWorld outcomes.
const (
	CreateSuccess       CreateResult = "SUCCESS"
	CreateWorldExists   CreateResult = "WORLD_EXISTS"
	CreateFileExists    CreateResult = "FILE_EXISTS"
	CreateCreationError CreateResult = "CREATION_ERROR"
)

func (r CreateResult) String() string { return string(r) }

// LoadResult is the outcome of LoadWorld.
type LoadResult string

// LoadWorld outcomes.
const (
	LoadSuccess          LoadResult = "SUCCESS"
	LoadNonexistentWorld LoadResult = "NONEXISTENT_WORLD"
	LoadError            LoadResult = "LOAD_ERROR"
)

func (r LoadResult) String() string { return string(r) }

// CloneResult is the outcome of CloneWorld.
type CloneResult string

// CloneWorld outcomes.
const (
	CloneSuccess          CloneResult = "SUCCESS"
	CloneNonexistentWorld CloneResult = "NONEXISTENT_WORLD"
	CloneWorldExists      CloneResult = "WORLD_EXISTS"
	CloneDirectoryExists  CloneResult = "DIRECTORY_EXISTS"
	CloneCopyError        CloneResult = "COPY_ERROR"
)

func (r CloneResult) String() string { return string(r) }

// RemoveResult is the outcome of RemoveWorld.
type RemoveResult string

// RemoveWorld outcomes.
const (
	RemoveSuccess          RemoveResult = "SUCCESS"
	RemoveNonexistentWorld RemoveResult = "NONEXISTENT_WORLD"
	RemoveFileRemovalError RemoveResult = "FILE_REMOVAL_ERROR"
)

func (r RemoveResult) String() string { return string(r) }

// ImportResult is the outcome of ImportWorld.
type ImportResult string

// ImportWorld outcomes.
const (
	ImportSuccess           ImportResult = "SUCCESS"
	ImportAlreadyImported   ImportResult = "ALREADY_IMPORTED"
	ImportIsFile            ImportResult = "IS_FILE"
	ImportNonexistentFolder ImportResult = "NONEXISTENT_FOLDER"
	ImportImportingError    ImportResult = "IMPORTING_ERROR"
)

func (r ImportResult) String() string { return string(r) }

// LinkResult is the outcome of LinkWorlds.
type LinkResult string

// LinkWorlds outcomes.
const (
	LinkSuccess                LinkResult = "SUCCESS"
	LinkNonexistentSource      LinkResult = "NONEXISTENT_SOURCE"
	LinkNonexistentDestination LinkResult = "NONEXISTENT_DESTINATION"
)

func (r LinkResult) String() string { return string(r) }

// TeleportResult is the outcome of TeleportPlayerIntoWorld.
type TeleportResult string

// TeleportPlayerIntoWorld outcomes.
const (
	TeleportSuccess          TeleportResult = "SUCCESS"
	TeleportNonexistentWorld TeleportResult = "NONEXISTENT_WORLD"
	TeleportUnloadedWorld    TeleportResult = "UNLOADED_WORLD"
)

func (r TeleportResult) String() string { return string(r) }

// SpawnResult is the outcome of SetServerSpawn and ResetServerSpawn.
type SpawnResult string

// Spawn outcomes.
const (
	SpawnSuccess          SpawnResult = "SUCCESS"
	SpawnNonexistentWorld SpawnResult = "NONEXISTENT_WORLD"
	SpawnUnloadedWorld    SpawnResult = "UNLOADED_WORLD"
)

func (r SpawnResult) String() string { return string(r) }

// ForceLoadResult is the outcome of AddForceLoad and RemoveForceLoad.
type ForceLoadResult string

// Force-load list outcomes.
const (
	ForceLoadSuccess          ForceLoadResult = "SUCCESS"
	ForceLoadNonexistentWorld ForceLoadResult = "NONEXISTENT_WORLD"
	ForceLoadAlreadyListed    ForceLoadResult = "ALREADY_LISTED"
	ForceLoadNotListed        ForceLoadResult = "NOT_LISTED"
)

func (r ForceLoadResult) String() string { return string(r) }
