package timelock

import "github.com/xraph/timelock/id"

// ID is the primary identifier type for all Timelock entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
