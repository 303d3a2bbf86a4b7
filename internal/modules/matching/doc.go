// Package matching assigns gift givers to receivers.
//
// Validate checks pinned (manual) assignments against the participant set
// and derives who still needs a receiver and who still needs a giver.
// Matcher fills those gaps with a random assignment that never pairs a
// participant with themselves. Both are pure: nothing here touches storage.
package matching
