package redis

const (
	// KeyPrefixUsage is the prefix for usage record keys
	KeyPrefixUsage = "dock:usage:"
	// KeyPrefixIcon is the prefix for cached icon keys
	KeyPrefixIcon = "dock:icon:"
	// KeyAllUsage is the key for the set of all usage keys
	KeyAllUsage = "dock:usages:all"
	// ChannelConfigChanged carries configuration change notifications
	ChannelConfigChanged = "dock:config:changed"
)

// UsageKey returns the Redis key for a usage record
func UsageKey(key string) string {
	return KeyPrefixUsage + key
}

// IconKey returns the Redis key for a cached icon
func IconKey(key string) string {
	return KeyPrefixIcon + key
}

// AllUsageKey returns the key for the set of all usage keys
func AllUsageKey() string {
	return KeyAllUsage
}
