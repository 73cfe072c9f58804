package utils

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Query parameter and JSON key names a QR payload may carry the id under,
// checked in order.
var idParamNames = []string{"id", "registrationId", "regId", "registration_id", "teamId", "team_id"}
var idJSONKeys = []string{"id", "registrationId", "regId", "registration_id"}

var (
	directIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	numericPattern  = regexp.MustCompile(`^\d+$`)
	kvPattern       = regexp.MustCompile(`(?i)(?:id|registrationId|regId|registration_id)[=:]\s*([A-Za-z0-9_-]+)`)
	longNumPattern  = regexp.MustCompile(`\b(\d{10,})\b`)
)

// ExtractRegistrationID resolves an arbitrary scanned payload to a canonical
// registration id. Strict, high-confidence formats are tried first so the
// loose heuristics at the bottom cannot shadow an exact match. The second
// return is false when nothing in the payload looks like an id; callers must
// reject the request rather than guess.
func ExtractRegistrationID(qrData string) (string, bool) {
	qrData = strings.TrimSpace(qrData)
	if qrData == "" {
		return "", false
	}

	// Case 1: the payload already is an id.
	if directIDPattern.MatchString(qrData) && !strings.Contains(qrData, "http") {
		return qrData, true
	}

	// Case 2: URL. Known query parameters first, then path heuristics.
	if u, err := url.Parse(qrData); err == nil && u.Scheme != "" && u.Host != "" {
		query := u.Query()
		for _, name := range idParamNames {
			if v := query.Get(name); v != "" {
				return v, true
			}
		}
		var segments []string
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
		if n := len(segments); n > 0 {
			last := segments[n-1]
			if directIDPattern.MatchString(last) && len(last) > 3 {
				return last, true
			}
			if n > 1 && numericPattern.MatchString(segments[n-2]) {
				return segments[n-2], true
			}
		}
	}

	// Case 3: JSON object.
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(qrData), &obj); err == nil {
		for _, key := range idJSONKeys {
			if v, ok := obj[key]; ok {
				if id := jsonIDString(v); id != "" {
					return id, true
				}
			}
		}
	}

	// Case 4: key=value or key: value.
	if m := kvPattern.FindStringSubmatch(qrData); m != nil {
		return m[1], true
	}

	// Case 5: last resort, any run of 10+ digits.
	if m := longNumPattern.FindStringSubmatch(qrData); m != nil {
		return m[1], true
	}

	return "", false
}

func jsonIDString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Ids decoded from JSON numbers are whole timestamps.
		return strconv.FormatInt(int64(val), 10)
	}
	return ""
}

// SameID reports whether a stored id and a lookup id refer to the same
// registration. Ids have been persisted both as strings and as numbers, so a
// case-sensitive string match or a numeric match after coercion both count.
func SameID(stored, lookup string) bool {
	if stored == "" || lookup == "" {
		return false
	}
	if stored == lookup {
		return true
	}
	a, errA := strconv.ParseInt(stored, 10, 64)
	b, errB := strconv.ParseInt(lookup, 10, 64)
	return errA == nil && errB == nil && a == b
}
