package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SkillsHash digests the normalized, sorted skill set. Only skills are hashed: a
// change to description or experience text keeps the hash and the cached score.
func SkillsHash(skills []string) string {
	sum := sha256.Sum256([]byte(strings.Join(NormalizeSkills(skills), "|")))
	return hex.EncodeToString(sum[:])
}
