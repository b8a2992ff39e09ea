package types

const (
	// GroupTreeMaxLevels is the maximum number of levels in a group
	// membership merkle tree.
	GroupTreeMaxLevels = 160
	// GroupKeyMaxLen is the maximum length of a membership tree key in bytes.
	GroupKeyMaxLen = GroupTreeMaxLevels / 8
	// NullifierLen is the fixed width, in bytes, of a nullifier encoded as a
	// storage key.
	NullifierLen = 32
)
