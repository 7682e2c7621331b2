package brume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingReleaser struct {
	name string
	log  *[]string
}

func (r *recordingReleaser) Release() {
	*r.log = append(*r.log, r.name)
}

func TestReleaseInReverseTearsDownDependentsFirst(t *testing.T) {
	var log []string
	resources := []releaser{
		&recordingReleaser{name: "mesh", log: &log},
		&recordingReleaser{name: "texture", log: &log},
		&recordingReleaser{name: "camera buffer", log: &log},
		&recordingReleaser{name: "camera group", log: &log},
		&recordingReleaser{name: "texture group", log: &log},
	}

	releaseInReverse(resources)

	assert.Equal(t, []string{
		"texture group", "camera group", "camera buffer", "texture", "mesh",
	}, log, "each resource must be released exactly once, dependents first")
}

func TestReleaseInReverseHandlesEmpty(t *testing.T) {
	releaseInReverse(nil)
	releaseInReverse([]releaser{})
}
