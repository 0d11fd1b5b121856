package config

// Allowlist is the fixed set of monitored repositories. It is built once at
// startup and never mutated, so lookups need no synchronization.
type Allowlist struct {
	repos map[string]struct{}
	order []string
}

// NewAllowlist builds an Allowlist from owner/name strings, preserving order
// and dropping duplicates.
func NewAllowlist(repos []string) Allowlist {
	set := make(map[string]struct{}, len(repos))
	order := make([]string, 0, len(repos))
	for _, r := range repos {
		if _, ok := set[r]; ok {
			continue
		}
		set[r] = struct{}{}
		order = append(order, r)
	}
	return Allowlist{repos: set, order: order}
}

// Contains reports whether repo ("owner/name") is monitored.
func (a Allowlist) Contains(repo string) bool {
	_, ok := a.repos[repo]
	return ok
}

// Repos returns the monitored repositories in configuration order.
func (a Allowlist) Repos() []string {
	return append([]string(nil), a.order...)
}

// Len returns the number of monitored repositories.
func (a Allowlist) Len() int {
	return len(a.order)
}
