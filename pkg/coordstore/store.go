// Package coordstore is the shared cross-worker coordination surface spec
// §4.3 requires: a sorted set, a hash, and a plain set, each with
// per-operation atomicity. Four independent sorting-center workers read and
// write this surface to agree on next-expected-event deadlines, next-hop
// scanners, which packages have already been reported late, and each
// other's simulated clock — without any direct worker-to-worker channel.
package coordstore

// ScoredMember is one (member, score) pair, as returned by
// ZRangeByScoreWithScores in ascending score order.
type ScoredMember struct {
	Member string
	Score  int64
}

// Store is the capability set spec §4.3 names. Implementations must make
// every individual operation atomic; no multi-key transaction is required
// (spec §5).
type Store interface {
	// ZAdd sets member's score in the sorted set at key, inserting it if
	// absent.
	ZAdd(key string, score int64, member string) error
	// ZRem removes members from the sorted set at key. Removing an absent
	// member is not an error.
	ZRem(key string, members ...string) error
	// ZRangeByScoreWithScores returns every member of the sorted set at key
	// with score in [min, max], ascending by score.
	ZRangeByScoreWithScores(key string, min, max int64) ([]ScoredMember, error)

	// HSet sets field's value in the hash at key.
	HSet(key, field, value string) error
	// HGet returns field's value in the hash at key, or ("", false) if
	// absent.
	HGet(key, field string) (string, bool, error)
	// HDel removes field from the hash at key. Removing an absent field is
	// not an error.
	HDel(key, field string) error

	// SAdd adds member to the set at key, reporting whether it was newly
	// added (used as the late_packages suppression guard in spec §4.4 S5).
	SAdd(key, member string) (wasNew bool, err error)
	// SRem removes member from the set at key. Removing an absent member is
	// not an error.
	SRem(key, member string) error
	// SMembers returns every member of the set at key.
	SMembers(key string) ([]string, error)

	// Del removes key entirely, regardless of its type.
	Del(key string) error
}
