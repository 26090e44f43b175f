// Package viewport holds the shared genomic viewport for a locus session.
//
// State is a deliberately dumb store: coordinates, the ChangeSource that last
// wrote them, the selected locus tag and the time of the last table
// navigation. All policy (cooldowns, suppression, fetch dedupe) lives in
// package syncview, which receives the State by injection.
//
// Writes are last-writer-wins. Subscribe runs observers after every write,
// table navigations included, so it suits tracing rather than fetch
// decisions. ClearNavigation is the one compare-and-set operation; it lets a
// delayed cooldown cleanup reset the source only if no newer navigation has
// replaced its timestamp.
package viewport
