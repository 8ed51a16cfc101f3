package instance

import "github.com/pgkim42/book-bean-frontend-sub000/pkg/env"

// GetID returns the process instance identifier used in logs.
func GetID() string {
	return env.FirstOf("local", "BOOKBEAN_INSTANCE_ID", "DYNO", "HOSTNAME")
}
