package custom

import (
	"fmt"
	"strconv"
)

// Snowflake is a Discord identifier. The gateway hands these around as strings, but they are
// persisted as integers so the stored document stays compatible with older configurations.
type Snowflake int64

// ParseSnowflake parses the string form of an identifier.
func ParseSnowflake(s string) (Snowflake, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid snowflake %q: must be positive", s)
	}
	return Snowflake(id), nil
}

// ParseSnowflakes parses every identifier, failing on the first invalid one.
func ParseSnowflakes(ss []string) ([]Snowflake, error) {
	ids := make([]Snowflake, 0, len(ss))
	for _, s := range ss {
		id, err := ParseSnowflake(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// String implements the fmt.Stringer interface.
func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// IsZero reports whether the identifier is unset.
func (s Snowflake) IsZero() bool {
	return s == 0
}
