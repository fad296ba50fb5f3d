// Package domain defines the demo-day entities and their pure state
// transitions: participant access states, fundraising profile publication
// derivation, and team-lead request lifecycle. Persistence and event
// emission live elsewhere; everything here is side-effect free.
package domain
