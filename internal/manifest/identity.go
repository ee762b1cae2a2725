package manifest

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceFileIdentity is the UUID v5 namespace for split file identities,
// derived from the URL namespace and a fixed sqlsplit string.
var NamespaceFileIdentity = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sqlsplit/file-identity/v1"))

// FileID returns the deterministic identity of an output file.
// Names are compared case-insensitively.
func FileID(filename string) uuid.UUID {
	return uuid.NewSHA1(NamespaceFileIdentity, []byte(strings.ToLower(filename)))
}
