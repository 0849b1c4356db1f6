// Package filter defines the stateless cloud to cloud filters used by the
// pipeline stages.
package filter

import (
	"github.com/seqsense/pcdbuilding/pcd"
)

// Filter returns a new cloud and never modifies its input.
type Filter interface {
	Filter(*pcd.Cloud) (*pcd.Cloud, error)
}
