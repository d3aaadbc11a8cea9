package rentroll

import "github.com/xraph/rentroll/id"

// ID is the primary identifier type for all rentroll entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
