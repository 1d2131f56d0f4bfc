// Package ids generates sortable unique identifiers for task ids and object
// keys.
package ids

import "github.com/segmentio/ksuid"

func New() string {
	return ksuid.New().String()
}
