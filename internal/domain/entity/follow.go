package entity

import "time"

// Follow is a directed edge: FollowerID follows FollowedID.
// At most one edge exists per ordered pair and FollowerID never equals FollowedID.
type Follow struct {
	FollowerID int64
	FollowedID int64
	CreatedAt  time.Time
}
