package chat

import "strconv"

// Room is a fan-out address. Rooms are not persisted; they are derived from
// the user or group id that names them.
type Room string

func UserRoom(userID uint) Room {
	return Room("user_" + strconv.FormatUint(uint64(userID), 10))
}

func GroupRoom(groupID uint) Room {
	return Room("group_" + strconv.FormatUint(uint64(groupID), 10))
}
