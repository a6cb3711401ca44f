package reactions

// Type identifies a reaction emoji from the closed catalogue.
// Unknown values are rejected at the API boundary; the storage layer only
// ever sees catalogue members.
type Type string

const (
	TypeLike       Type = "like"
	TypeLove       Type = "love"
	TypeLaugh      Type = "laugh"
	TypeWow        Type = "wow"
	TypeSad        Type = "sad"
	TypeAngry      Type = "angry"
	TypeFire       Type = "fire"
	TypeParty      Type = "party"
	TypeThinking   Type = "thinking"
	TypeClap       Type = "clap"
	TypeHeartEyes  Type = "heart_eyes"
	TypeThumbsDown Type = "thumbs_down"
	TypeShocked    Type = "shocked"
	TypeConfused   Type = "confused"
	TypeRocket     Type = "rocket"
)

// catalogue is the full set of known reaction types
var catalogue = map[Type]struct{}{
	TypeLike: {}, TypeLove: {}, TypeLaugh: {}, TypeWow: {}, TypeSad: {},
	TypeAngry: {}, TypeFire: {}, TypeParty: {}, TypeThinking: {}, TypeClap: {},
	TypeHeartEyes: {}, TypeThumbsDown: {}, TypeShocked: {}, TypeConfused: {},
	TypeRocket: {},
}

// Valid reports whether t is a member of the reaction catalogue
func (t Type) Valid() bool {
	_, ok := catalogue[t]
	return ok
}

const (
	// MaxTypesPerUser is the number of distinct reaction types a single user
	// may hold concurrently on one post
	MaxTypesPerUser = 3

	// MaxTypesPerPost is the number of distinct reaction types a post may
	// accumulate. Types already present stay addable/removable for everyone;
	// the cap only blocks a brand-new type.
	MaxTypesPerPost = 6
)

// Map is the per-post reaction state: reaction type -> user IDs who hold it.
// Types with no remaining users are removed from the map entirely, so
// len(m) is always the count of visible distinct types.
type Map map[Type][]string

// Limit names the capacity rule that rejected a reaction add
type Limit string

const (
	LimitNone    Limit = ""
	LimitUserCap Limit = "user_cap"
	LimitPostCap Limit = "post_cap"
)

// Outcome describes what a toggle did to the reaction map
type Outcome struct {
	// Added is true when the user's reaction was added
	Added bool
	// Removed is true when the toggle removed an existing reaction
	Removed bool
	// Limit is set when an add was rejected by a capacity rule; the map is
	// returned unchanged in that case
	Limit Limit
}

// Changed reports whether the toggle mutated the reaction map
func (o Outcome) Changed() bool {
	return o.Added || o.Removed
}

// UserTypes returns the distinct reaction types userID currently holds on the map
func UserTypes(m Map, userID string) []Type {
	var held []Type
	for t, users := range m {
		for _, u := range users {
			if u == userID {
				held = append(held, t)
				break
			}
		}
	}
	return held
}

// Apply runs the toggle state machine for (userID, rt) against m and returns
// the resulting map. Removal is always permitted; an add is validated against
// both capacity rules and rejected as a no-op when either is exceeded.
//
// Apply mutates m in place and must run under whatever serialization the
// caller provides for the post (the Postgres repository holds the post row
// lock for the duration).
func Apply(m Map, userID string, rt Type) (Map, Outcome) {
	if m == nil {
		m = make(Map)
	}

	// Toggle off: user already holds this type
	if holdsType(m, userID, rt) {
		m[rt] = removeUser(m[rt], userID)
		if len(m[rt]) == 0 {
			delete(m, rt)
		}
		return m, Outcome{Removed: true}
	}

	// Per-user cap: at most MaxTypesPerUser concurrently-held distinct types
	if len(UserTypes(m, userID)) >= MaxTypesPerUser {
		return m, Outcome{Limit: LimitUserCap}
	}

	// Per-post cap: a brand-new type may not push the post past
	// MaxTypesPerPost visible types
	if _, present := m[rt]; !present && len(m) >= MaxTypesPerPost {
		return m, Outcome{Limit: LimitPostCap}
	}

	m[rt] = append(m[rt], userID)
	return m, Outcome{Added: true}
}

func holdsType(m Map, userID string, rt Type) bool {
	for _, u := range m[rt] {
		if u == userID {
			return true
		}
	}
	return false
}

func removeUser(users []string, userID string) []string {
	out := users[:0]
	for _, u := range users {
		if u != userID {
			out = append(out, u)
		}
	}
	return out
}
