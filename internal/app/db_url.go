package app

import "net/url"

// RedactDBURL masks the password in a Postgres DSN so the DSN can be
// logged.
func RedactDBURL(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil || parsed.User == nil {
		return dsn
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return dsn
	}

	parsed.User = url.UserPassword(parsed.User.Username(), "*****")
	return parsed.String()
}
