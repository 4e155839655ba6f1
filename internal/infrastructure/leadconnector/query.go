package leadconnector

import "strconv"

// Query collects request query parameters. Absent values are omitted from the
// query string entirely rather than sent empty; several platform endpoints
// distinguish between a missing parameter and an empty one, so this is a firm
// contract of the gateway, not a convenience.
type Query map[string]string

// Set adds key=value, dropping the pair when value is empty.
func (q Query) Set(key, value string) Query {
	if value != "" {
		q[key] = value
	}
	return q
}

// SetInt adds key=value, dropping the pair when value is not positive.
func (q Query) SetInt(key string, value int) Query {
	if value > 0 {
		q[key] = strconv.Itoa(value)
	}
	return q
}

// SetInt64 adds key=value, dropping the pair when value is not positive.
func (q Query) SetInt64(key string, value int64) Query {
	if value > 0 {
		q[key] = strconv.FormatInt(value, 10)
	}
	return q
}

// SetBool adds key=true only when value is set. The platform treats the
// presence of its include-flags as truthy.
func (q Query) SetBool(key string, value bool) Query {
	if value {
		q[key] = "true"
	}
	return q
}
