package types

import (
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// IDPrefix tags generated identifiers with the kind of record they name
type IDPrefix string

const (
	IDPrefixTemplate IDPrefix = "tmpl"
	IDPrefixBlock    IDPrefix = "blk"
	IDPrefixPageLoad IDPrefix = "load"

	// ExportRefPrefix starts the human readable export reference
	ExportRefPrefix = "EXP"
	// exportRefLen is the full length of an export reference, prefix included
	exportRefLen = 12
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// NewID returns a k-sortable identifier such as tmpl_01HZX3K8W6C9Q2YB7P1N4D5E6F
func NewID(prefix IDPrefix) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return string(prefix) + "_" + GenerateUUID()
}

// HasPrefix reports whether id was generated by NewID with prefix
func (p IDPrefix) HasPrefix(id string) bool {
	return strings.HasPrefix(id, string(p)+"_") && len(id) > len(p)+1
}

var (
	refGenerator *shortid.Shortid
	refOnce      sync.Once
)

// NewExportRef returns an upper case reference like EXPK3X9QZ2MA that is short
// enough to read out over the phone. It is not guaranteed unique across restarts.
func NewExportRef() string {
	refOnce.Do(func() {
		var err error
		refGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
		if err != nil {
			panic("failed to initialize shortid generator: " + err.Error())
		}
	})

	id, err := refGenerator.Generate()
	if err != nil {
		return ExportRefPrefix + strings.ToUpper(GenerateUUID()[:exportRefLen-len(ExportRefPrefix)])
	}
	id = strings.NewReplacer("-", "", "_", "").Replace(id)
	if n := exportRefLen - len(ExportRefPrefix); len(id) > n {
		id = id[:n]
	}
	return ExportRefPrefix + strings.ToUpper(id)
}
