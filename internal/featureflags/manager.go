// Package featureflags evaluates switches configured through FEATURE_FLAGS.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Known flags.
const (
	// LegacyNumericIDs lets admin routes accept numeric identifiers.
	LegacyNumericIDs = "legacy_numeric_ids"
	// XPRewards enables XP awards on approvals.
	XPRewards = "xp_rewards"
)

// Manager evaluates flags defined as a key=value list, for example
// "legacy_numeric_ids=on,xp_rewards=25%".
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated flag list. Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return &Manager{flags: out}
}

// On reports whether a flag is switched on globally. Percentage rollouts
// count as on only at 100%.
func (m *Manager) On(name string) bool {
	return m.Enabled(name, uuid.Nil)
}

// Enabled reports whether a flag is on for a user. Percentage values bucket
// users deterministically; the nil user is never inside a partial rollout.
func (m *Manager) Enabled(name string, userID uuid.UUID) bool {
	if m == nil {
		return false
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == uuid.Nil:
		return false
	}
	return rolloutBucket(name, userID) < pct
}

// Snapshot returns the evaluated flags for one user.
func (m *Manager) Snapshot(userID uuid.UUID) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + userID.String()))
	return int(h.Sum32() % 100)
}
