package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SkillsHash(t *testing.T) {
	a := SkillsHash([]string{"React", "node"})
	b := SkillsHash([]string{"node", "react ", "REACT"})

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, SkillsHash([]string{"react"}))
	assert.Equal(t, SkillsHash(nil), SkillsHash([]string{}))
}
